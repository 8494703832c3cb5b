package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spectacles-go/validate/lookml"
	"github.com/spectacles-go/validate/looker"
	"github.com/spectacles-go/validate/validator"
)

var compileCmd = &cobra.Command{
	Use:   "compile-sql PROJECT_FILE MODEL EXPLORE",
	Short: "Recover the SQL an explore's dimensions compile to, without validating it",
	Args:  cobra.ExactArgs(3),
	RunE:  runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	projectFile, model, exploreName := args[0], args[1], args[2]

	f, err := os.Open(projectFile)
	if err != nil {
		return fmt.Errorf("opening project file: %w", err)
	}
	defer f.Close()

	project, err := lookml.LoadProject(f)
	if err != nil {
		return err
	}

	var explore *lookml.Explore
	for _, e := range project.Explores {
		if e.ModelName() == model && e.Name() == exploreName {
			explore = e
			break
		}
	}
	if explore == nil {
		return fmt.Errorf("no explore %s/%s in %s", model, exploreName, projectFile)
	}

	client := looker.NewAPIClient(ctx, apiConfigFromFlags())
	orch := validator.NewOrchestrator(client, validator.Config{})

	sql, err := orch.CompileSQL(ctx, explore)
	if err != nil {
		return err
	}
	fmt.Println(sql)
	return nil
}
