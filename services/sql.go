package services

import (
	"fmt"
	"os"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cliphive/clip_api/model"
)

type SqlService struct {
	context.DefaultService
	db *gorm.DB

	host     string
	port     string
	user     string
	password string
	database string
}

const SQL_SVC = "sql_svc"

// Id returns Service ID
func (ds SqlService) Id() string {
	return SQL_SVC
}

// Db Access to raw SqlService db
func (ds SqlService) Db() *gorm.DB {
	return ds.db
}

// Configure the service
func (ds *SqlService) Configure(ctx *context.Context) error {
	ds.host = os.Getenv("DB_HOST")
	ds.port = os.Getenv("DB_PORT")
	ds.user = os.Getenv("DB_USER")
	ds.password = os.Getenv("DB_PASSWORD")
	ds.database = os.Getenv("DB_DATABASE")

	if ds.port == "" {
		ds.port = "5432"
	}
	if ds.database == "" {
		ds.database = "cliphive.db"
	}

	return ds.DefaultService.Configure(ctx)
}

// Start the service and open connection to the database.
// Postgres when DB_HOST is set, embedded sqlite otherwise.
// Migrate any tables that have changed since last runtime.
func (ds *SqlService) Start() (err error) {
	dialector := ds.dialector()

	ds.db, err = gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	})
	if err != nil {
		return err
	}

	models := []interface{}{
		&model.User{},
		&model.EmailVerification{},
		&model.RefreshSession{},
		&model.Video{},
		&model.VideoView{},
		&model.Follow{},
		&model.Like{},
		&model.Comment{},
		&model.Report{},
	}

	err = ds.db.AutoMigrate(models...)
	if err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *SqlService) dialector() gorm.Dialector {
	if ds.host == "" {
		return sqlite.Open(ds.database)
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		ds.host, ds.port, ds.user, ds.password, ds.database)
	return postgres.Open(dsn)
}

func (ds *SqlService) Shutdown() {
}
