// tokenctl manages the bearer tokens that authenticate the HTTP API.
//
//	tokenctl mint <slack-user-id>
//	tokenctl list
//	tokenctl revoke <token>
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dinopoll/dinopoll/src/config"
	"github.com/dinopoll/dinopoll/src/data"
	"github.com/dinopoll/dinopoll/src/types"
	"github.com/google/uuid"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg := config.Load()
	db := data.MustMySQL(cfg.MySQLDSN)
	if err := data.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	switch os.Args[1] {
	case "mint":
		if len(os.Args) != 3 {
			usage()
		}
		tok := types.Token{User: os.Args[2], Token: uuid.NewString()}
		if err := db.Create(&tok).Error; err != nil {
			log.Fatalf("mint: %v", err)
		}
		fmt.Println(tok.Token)

	case "list":
		var tokens []types.Token
		if err := db.Order("id ASC").Find(&tokens).Error; err != nil {
			log.Fatalf("list: %v", err)
		}
		for _, t := range tokens {
			fmt.Printf("%d\t%s\t%s\t%s\n", t.ID, t.User, t.Token, t.CreatedAt.Format("2006-01-02"))
		}

	case "revoke":
		if len(os.Args) != 3 {
			usage()
		}
		res := db.Where("token = ?", os.Args[2]).Delete(&types.Token{})
		if res.Error != nil {
			log.Fatalf("revoke: %v", res.Error)
		}
		if res.RowsAffected == 0 {
			log.Fatal("revoke: token not found")
		}

	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: tokenctl mint <user> | list | revoke <token>")
	os.Exit(2)
}
