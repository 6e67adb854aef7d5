/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/votesecure/platform/config"
	"github.com/votesecure/platform/internal/db"
	"github.com/votesecure/platform/internal/store"
	"github.com/votesecure/platform/types"
	"golang.org/x/crypto/bcrypt"
)

// seedCmd loads a demo dataset: one approved admin account and a few
// elections with candidates, so a fresh install has something to show.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo elections and a default admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		dbConn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		ctx := cmd.Context()
		userRepo := store.NewUserRepository(dbConn)
		electionRepo := store.NewElectionRepository(dbConn)

		adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
		if adminPassword == "" {
			return errors.New("SEED_ADMIN_PASSWORD is required")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		admin, err := userRepo.Create(ctx, types.User{
			Username:     "admin",
			Email:        "admin@votesecure.local",
			Name:         "Administrator",
			Role:         types.RoleAdmin,
			Status:       types.StatusApproved,
			PasswordHash: string(hashed),
		})
		if err != nil && !errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("seed admin failed: %w", err)
		}
		if err == nil {
			fmt.Printf("created admin account %s (%s)\n", admin.Username, admin.Email)
		}

		now := time.Now()
		elections := []types.Election{
			{
				Title:       "Presidential Election 2024",
				Description: "National presidential election for the next term",
				StartDate:   now.Add(-2 * time.Hour),
				EndDate:     now.Add(8 * time.Hour),
				Candidates: []types.Candidate{
					{Name: "Sarah Johnson", Party: "Democratic Party", Description: "Former Governor with 15 years of public service experience", Experience: "Governor (2018-2023), State Senator (2010-2018)"},
					{Name: "Michael Chen", Party: "Republican Party", Description: "Business leader and former military officer", Experience: "CEO Tech Solutions Inc. (2015-2024), Military Officer (2008-2015)"},
					{Name: "Elena Rodriguez", Party: "Green Party", Description: "Environmental activist and university professor", Experience: "Environmental Law Professor (2012-2024), Climate Policy Advisor (2010-2012)"},
					{Name: "Robert Williams", Party: "Independent", Description: "Healthcare professional and community organizer", Experience: "Hospital Administrator (2016-2024), Registered Nurse (2005-2010)"},
				},
			},
			{
				Title:       "Local Mayor Election",
				Description: "City mayor election for local governance",
				StartDate:   now.Add(26 * 24 * time.Hour),
				EndDate:     now.Add(27 * 24 * time.Hour),
				Candidates: []types.Candidate{
					{Name: "James Park", Party: "Independent", Description: "Small business owner and school board member"},
					{Name: "Maria Santos", Party: "Democratic Party", Description: "City council member for two terms"},
					{Name: "David Kim", Party: "Republican Party", Description: "Former police chief"},
				},
			},
			{
				Title:       "Senate Elections 2024",
				Description: "State senate representative elections",
				StartDate:   now.Add(-10 * 24 * time.Hour),
				EndDate:     now.Add(-9 * 24 * time.Hour),
				Candidates: []types.Candidate{
					{Name: "Angela Brooks", Party: "Democratic Party"},
					{Name: "Thomas Reed", Party: "Republican Party"},
				},
			},
		}

		for _, election := range elections {
			created, err := electionRepo.Create(ctx, election)
			if err != nil {
				return fmt.Errorf("seed election %q failed: %w", election.Title, err)
			}
			fmt.Printf("created election %d: %s\n", created.ID, created.Title)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
