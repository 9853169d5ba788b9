package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"complaintflow/backend/internal/config"
	"complaintflow/backend/internal/models"
	"complaintflow/backend/internal/storage"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: seed-user, list-role, list-stale, show-ledger")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "seed-user":
		if len(os.Args) < 5 {
			fmt.Println("Usage: admin seed-user <name> <email> <role> [department_id]")
			os.Exit(1)
		}
		role, err := models.ParseRole(os.Args[4])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		dept := ""
		if len(os.Args) > 5 {
			dept = os.Args[5]
		}
		user := &models.User{Name: os.Args[2], Email: os.Args[3], Role: role, DepartmentID: dept}
		if err := storageSvc.SaveUser(user); err != nil {
			log.Fatalf("Error creating user: %v", err)
		}
		fmt.Printf("Created %s %s (id %s)\n", role, user.Name, user.ID)

	case "list-role":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin list-role <role>")
			os.Exit(1)
		}
		role, err := models.ParseRole(os.Args[2])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		users, err := storageSvc.UsersByRole(role)
		if err != nil {
			log.Fatalf("Error listing users: %v", err)
		}
		for _, u := range users {
			fmt.Printf("%s\t%s\t%s\tdept=%s\n", u.ID, u.Name, u.Email, u.DepartmentID)
		}

	case "list-stale":
		hours := 24
		if len(os.Args) > 2 {
			var err error
			hours, err = strconv.Atoi(os.Args[2])
			if err != nil {
				fmt.Println("Invalid hours. Please provide an integer.")
				os.Exit(1)
			}
		}
		cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)
		escs, err := storageSvc.StalePendingEscalations(cutoff)
		if err != nil {
			log.Fatalf("Error listing stale escalations: %v", err)
		}
		for _, e := range escs {
			fmt.Printf("%s\tcomplaint=%s\tto=%s %s\tsince=%s\n",
				e.ID, e.ComplaintID, e.EscalatedToRole, e.EscalatedToID, e.CreatedAt.Format(time.RFC3339))
		}

	case "show-ledger":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin show-ledger <complaint_id>")
			os.Exit(1)
		}
		escs, decs, err := storageSvc.ComplaintLedger(os.Args[2])
		if err != nil {
			log.Fatalf("Error loading ledger: %v", err)
		}
		for _, e := range escs {
			fmt.Printf("escalation\t%s\t%s\t%s -> %s %s\tstatus=%s\n",
				e.CreatedAt.Format(time.RFC3339), e.ActionType, e.EscalatedByID, e.EscalatedToRole, e.EscalatedToID, e.Status)
		}
		for _, d := range decs {
			fmt.Printf("decision\t%s\t%s -> %s %s\tstatus=%s\n",
				d.CreatedAt.Format(time.RFC3339), d.SenderID, d.ReceiverRole, d.ReceiverID, d.Status)
		}

	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}
