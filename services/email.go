package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
)

type EmailService struct {
	context.DefaultService

	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
	baseURL      string

	verificationTmpl *template.Template
}

const EMAIL_SVC = "email_svc"

func (svc EmailService) Id() string {
	return EMAIL_SVC
}

func (svc *EmailService) Configure(ctx *context.Context) error {
	svc.smtpHost = os.Getenv("SMTP_HOST")
	svc.smtpPort = os.Getenv("SMTP_PORT")
	svc.smtpUsername = os.Getenv("SMTP_USERNAME")
	svc.smtpPassword = os.Getenv("SMTP_PASSWORD")
	svc.fromEmail = os.Getenv("FROM_EMAIL")
	svc.fromName = os.Getenv("FROM_NAME")
	svc.baseURL = os.Getenv("BASE_URL")

	if svc.smtpPort == "" {
		svc.smtpPort = "587"
	}
	if svc.fromName == "" {
		svc.fromName = "ClipHive"
	}
	if svc.baseURL == "" {
		svc.baseURL = "http://localhost:8000"
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *EmailService) Start() error {
	tmpl, err := template.New("verification").Parse(verificationEmailHTML)
	if err != nil {
		log.WithError(err).Error("Failed to parse verification email template")
		// Don't fail startup, just log the error
		return nil
	}
	svc.verificationTmpl = tmpl
	return nil
}

const verificationEmailHTML = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Verify Your Email - {{.AppName}}</title>
</head>
<body>
    <h1>Welcome to {{.AppName}}!</h1>
    <p>Hi {{.Username}},</p>
    <p>Your verification code is:</p>
    <h2>{{.Code}}</h2>
    <p>Enter it in the app to verify your email address. The code expires in 24 hours.</p>
    <p>If you didn't create an account with {{.AppName}}, you can safely ignore this email.</p>
</body>
</html>
`

func (svc *EmailService) SendVerificationEmail(to, username, code string) error {
	if svc.verificationTmpl == nil {
		return fmt.Errorf("verification template not loaded")
	}

	var body bytes.Buffer
	err := svc.verificationTmpl.Execute(&body, map[string]string{
		"AppName":  svc.fromName,
		"Username": username,
		"Code":     code,
	})
	if err != nil {
		return err
	}

	return svc.send(to, fmt.Sprintf("Verify your email - %s", svc.fromName), body.String())
}

func (svc *EmailService) send(to, subject, htmlBody string) error {
	if svc.smtpHost == "" {
		log.WithField("to", to).Info("SMTP not configured, skipping email")
		return nil
	}

	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		svc.fromName, svc.fromEmail, to, subject, htmlBody)

	auth := smtp.PlainAuth("", svc.smtpUsername, svc.smtpPassword, svc.smtpHost)
	addr := svc.smtpHost + ":" + svc.smtpPort

	return smtp.SendMail(addr, auth, svc.fromEmail, []string{to}, []byte(msg))
}
