package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/chamahub/chama-management/internal/core"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample members for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"regular_contributions", "special_contributions", "misc_incomes", "expenditures", "members"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		seedMembers := []struct {
			FirstName string
			LastName  string
			Email     string
			Role      core.Role
			Active    bool
		}{
			{"Amina", "Wanjiru", "admin@chamahub.example", core.RoleAdmin, true},
			{"Brian", "Otieno", "treasurer@chamahub.example", core.RoleTreasurer, true},
			{"Cynthia", "Mutiso", "chairperson@chamahub.example", core.RoleChairperson, true},
			{"David", "Kiprotich", "member@chamahub.example", core.RoleMember, true},
			{"Esther", "Njoroge", "pending@chamahub.example", core.RoleMember, false},
		}

		for _, sm := range seedMembers {
			var exists int
			row := db.Raw("SELECT 1 FROM members WHERE email = ?", sm.Email).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Printf("member %s already exists, skipping\n", sm.Email)
				continue
			}

			status := "pending"
			approved := false
			if sm.Active {
				status = "active"
				approved = true
			}

			err := db.Exec(`INSERT INTO members
				(first_name, last_name, email, password_hash, role, status,
				 treasurer_approved, chairperson_approved, joined_at, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, now(), now())`,
				sm.FirstName, sm.LastName, sm.Email, string(hash), string(sm.Role), status,
				approved, approved, time.Now()).Error
			if err != nil {
				log.Fatalf("failed to insert member %s: %v", sm.Email, err)
			}
			fmt.Printf("Seeded member: %s (%s)\n", sm.Email, sm.Role)
		}

		fmt.Println("Seeding complete; every account uses the password \"password\"")
	},
}
