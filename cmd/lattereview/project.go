// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kevinchung58/LatteReview/internal/project"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage review project directories",
	Long: `Project creates and lists review projects. Each project is a directory
under the projects root with a data/ folder for citation files, a results/
folder for the run database and exports, and a project.yaml.`,
}

var projectCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new review project",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, _ := cmd.Flags().GetString("projects-root")
		name := strings.Join(args, " ")

		cfg, err := project.Create(root, name)
		if err != nil {
			return err
		}
		fmt.Printf("created project %q (id %s)\n", cfg.Name, cfg.ID)
		fmt.Printf("  data:    %s\n", project.DataDir(root, cfg.ID))
		fmt.Printf("  results: %s\n", project.ResultsDir(root, cfg.ID))
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List existing review projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, _ := cmd.Flags().GetString("projects-root")

		projects, err := project.List(root)
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Println("No projects found.")
			return nil
		}
		for _, p := range projects {
			if p.CreatedAt.IsZero() {
				fmt.Printf("%-30s  %s\n", p.ID, p.Name)
				continue
			}
			fmt.Printf("%-30s  %s  (created %s)\n", p.ID, p.Name, p.CreatedAt.Format("2006-01-02"))
		}
		return nil
	},
}

func init() {
	projectCmd.PersistentFlags().String("projects-root", "lattereview_projects", "root directory holding project folders")

	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
	rootCmd.AddCommand(projectCmd)
}
