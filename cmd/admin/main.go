// Command admin manages groups, which have no user-facing write flow.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/models"
	"quill/internal/repository"

	"github.com/joho/godotenv"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  admin create-group <title> <slug> [description]  - Create a group")
	fmt.Println("  admin delete-group <id>                          - Delete a group, detaching its posts")
	fmt.Println("  admin list-groups                                - List all groups")
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	groups := repository.NewGroupRepository(db)
	ctx := context.Background()

	switch os.Args[1] {
	case "create-group":
		if len(os.Args) < 4 {
			usage()
		}
		group := &models.Group{Title: os.Args[2], Slug: os.Args[3]}
		if len(os.Args) > 4 {
			group.Description = os.Args[4]
		}
		if err := groups.Create(ctx, group); err != nil {
			log.Fatalf("Failed to create group: %v", err)
		}
		fmt.Printf("Created group %d (%s)\n", group.ID, group.Slug)

	case "delete-group":
		if len(os.Args) < 3 {
			usage()
		}
		id, err := strconv.ParseUint(os.Args[2], 10, 32)
		if err != nil {
			log.Fatalf("Invalid group id %q", os.Args[2])
		}
		if err := groups.Delete(ctx, uint(id)); err != nil {
			log.Fatalf("Failed to delete group: %v", err)
		}
		fmt.Printf("Deleted group %d; its posts now carry no group\n", id)

	case "list-groups":
		all, err := groups.List(ctx)
		if err != nil {
			log.Fatalf("Failed to list groups: %v", err)
		}
		for _, g := range all {
			fmt.Printf("%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
		}

	default:
		usage()
	}
}
