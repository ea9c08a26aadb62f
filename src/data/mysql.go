package data

import (
	"log"

	"github.com/dinopoll/dinopoll/src/types"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func MustMySQL(dsn string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	return db
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.Poll{},
		&types.PollOption{},
		&types.Vote{},
		&types.Token{},
	)
}
