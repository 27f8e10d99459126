package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type OAuthClient struct {
	ID         string `gorm:"primaryKey"`
	Secret     string `gorm:"not null"`
	Name       string `gorm:"not null"`
	Domain     string
	UserID     string
	Scopes     string `gorm:"not null"`
	GrantTypes string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (OAuthClient) TableName() string {
	return "oauth_clients"
}

type Account struct {
	ID           uint   `gorm:"primaryKey"`
	UID          string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string
	Role         string `gorm:"default:'customer'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func main() {
	role := flag.String("role", "admin", "Account role (admin or customer)")
	dbPath := flag.String("db", "dailypizza.sqlite", "Path to the sqlite store")
	flag.Parse()

	db, err := gorm.Open(sqlite.Open(*dbPath), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	var clientID, clientSecret string
	if *role == "customer" {
		clientID = "customer-client"
		clientSecret = "customer-secret-123"
	} else {
		clientID = "dev-client"
		clientSecret = "dev-secret-123"
	}

	var existing OAuthClient
	if err := db.Where("id = ?", clientID).First(&existing).Error; err == nil {
		fmt.Printf("Development client already exists for role '%s'!\n", *role)
		fmt.Printf("Client ID: %s\n", clientID)
		fmt.Printf("Client Secret: %s\n", clientSecret)
		return
	}

	uid := getAccountUIDForRole(db, *role)
	if uid == "" {
		log.Fatal("Failed to get account for role:", *role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(clientSecret), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash secret:", err)
	}

	client := OAuthClient{
		ID:         clientID,
		Secret:     string(hash),
		Name:       fmt.Sprintf("Development %s Client", *role),
		Domain:     "http://localhost",
		UserID:     uid,
		Scopes:     "read write",
		GrantTypes: "client_credentials",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := db.Create(&client).Error; err != nil {
		log.Fatal("Failed to create client:", err)
	}

	fmt.Printf("Development OAuth client created for role '%s'!\n", *role)
	fmt.Printf("Client ID: %s\n", clientID)
	fmt.Printf("Client Secret: %s\n", clientSecret)
	fmt.Printf("Account UID: %s\n", uid)
	fmt.Println("\nUse these credentials for testing:")
	fmt.Printf("curl -X POST http://localhost:8080/api/v1/oauth/token \\\n")
	fmt.Printf("  -d 'grant_type=client_credentials' \\\n")
	fmt.Printf("  -d 'client_id=%s' \\\n", clientID)
	fmt.Printf("  -d 'client_secret=%s'\n", clientSecret)
}

// getAccountUIDForRole gets or creates an account with the specified role
func getAccountUIDForRole(db *gorm.DB, role string) string {
	var account Account
	email := fmt.Sprintf("%s@dailypizza.dev", role)

	if err := db.Where("email = ?", email).First(&account).Error; err == nil {
		fmt.Printf("Found existing account: %s (UID: %s, Role: %s)\n", account.Email, account.UID, account.Role)
		return account.UID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("dev-password-123"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		return ""
	}

	account = Account{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         fmt.Sprintf("%s Account", role),
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(&account).Error; err != nil {
		log.Printf("Failed to create account: %v", err)
		return ""
	}

	fmt.Printf("Created new account: %s (UID: %s, Role: %s)\n", account.Email, account.UID, account.Role)
	return account.UID
}
