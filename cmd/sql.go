package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spectacles-go/validate/lookml"
	"github.com/spectacles-go/validate/looker"
	"github.com/spectacles-go/validate/validator"
)

var sqlCmd = &cobra.Command{
	Use:   "sql PROJECT_FILE",
	Short: "Validate the SQL generated by every dimension of a LookML project",
	Long:  `sql drives the analytics API's query task pipeline against every explore in PROJECT_FILE, localizing any SQL error to the offending dimension unless --fail-fast is set.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSQL,
}

func init() {
	addSchedulerFlags(sqlCmd)
	addProfilerFlags(sqlCmd)
	viper.BindPFlags(sqlCmd.Flags())
	rootCmd.AddCommand(sqlCmd)
}

func runSQL(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case <-sigs:
			cancel()
		case <-ctx.Done():
		}
	}()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening project file: %w", err)
	}
	defer f.Close()

	project, err := lookml.LoadProject(f)
	if err != nil {
		return err
	}

	client := looker.NewAPIClient(ctx, apiConfigFromFlags())

	orch := validator.NewOrchestrator(client, validator.Config{
		Concurrency:      viper.GetInt("concurrency"),
		ChunkSize:        viper.GetInt("chunk-size"),
		RuntimeThreshold: viper.GetFloat64("runtime-threshold"),
	})

	mode := validator.ModeLocalize
	if viper.GetBool("fail-fast") {
		mode = validator.ModeFailFast
	}

	result, err := orch.Search(ctx, project, mode)
	if err != nil {
		return err
	}

	failures := 0
	for _, explore := range project.Explores {
		for _, dim := range explore.Dimensions {
			failures += len(dim.Errors())
		}
		failures += len(explore.Errors())
	}
	log.WithField("failures", failures).Info("validation complete")

	if viper.GetBool("profile") {
		fmt.Println(validator.RenderProfile(result.Profile, viper.GetFloat64("runtime-threshold")))
	}

	if failures > 0 {
		os.Exit(1)
	}
	return nil
}
