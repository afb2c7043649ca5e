package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swarm-console/internal/catalog"
	"swarm-console/internal/display"
	"swarm-console/internal/listener"
	"swarm-console/internal/swarmcore"
)

const deployFailedAlert = "System Error: Unable to contact Swarm Core."

var errEmptyTask = errors.New("a mission objective is required")

func newDeployCmd(a *app) *cobra.Command {
	var swarmID string
	var detach, plain bool

	cmd := &cobra.Command{
		Use:   "deploy [task...]",
		Short: "Brief a swarm and deploy a mission",
		Long: `Deploy sends a mission objective to swarm-core and opens the mission view.
Without arguments the objective is read from an interactive prompt.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.catalog()
			if err != nil {
				return err
			}

			interactive := len(args) == 0
			task := strings.TrimSpace(strings.Join(args, " "))
			if interactive {
				if err := listener.Init(); err != nil {
					return fmt.Errorf("failed to init terminal input: %w", err)
				}
				defer listener.Close()
				swarmID, task, err = brief(c, swarmID)
				if err != nil {
					return err
				}
			}
			if task == "" {
				return errEmptyTask
			}

			req := swarmcore.CreateJobRequest{Task: task}
			if swarmID != "" {
				s, ok := c.Lookup(swarmID)
				if !ok {
					return fmt.Errorf("unknown swarm %q (available: %s)", swarmID, strings.Join(c.IDs(), ", "))
				}
				req.SwarmID = &s.ID
			}

			if interactive && !listener.AskYesNo("Deploy this mission?") {
				fmt.Fprintln(cmd.OutOrStdout(), "Deployment cancelled.")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Initializing Swarm...")
			jobID, err := a.client.CreateJob(cmd.Context(), req)
			if err != nil {
				a.log.Error("Deployment failed", zap.Error(err))
				if interactive {
					listener.Alert(deployFailedAlert)
				} else {
					fmt.Fprintln(cmd.ErrOrStderr(), deployFailedAlert)
				}
				return fmt.Errorf("deploy: %w", err)
			}
			a.log.Info("Mission deployed", zap.String("job_id", jobID), zap.String("task", task))
			fmt.Fprintf(cmd.OutOrStdout(), "Mission %s deployed.\n", jobID)

			if detach {
				return nil
			}
			// The mission view takes over the terminal.
			listener.Close()
			return a.watch(cmd, jobID, plain)
		},
	}
	cmd.Flags().StringVarP(&swarmID, "swarm", "s", "", "id of the swarm to hire (see `swarmctl swarms`)")
	cmd.Flags().BoolVarP(&detach, "detach", "d", false, "print the job id and exit instead of watching")
	cmd.Flags().BoolVar(&plain, "plain", false, "follow the mission as plain text")
	return cmd
}

// brief asks for the swarm, when none was given, and the objective.
func brief(c *catalog.Catalog, swarmID string) (string, string, error) {
	if swarmID == "" {
		listener.AsyncPrintln(display.FormatSwarmCatalog(c))
		ans, err := listener.Prompt("Swarm id (enter for none) > ")
		if err != nil {
			return "", "", err
		}
		swarmID = ans
	}
	if s, ok := c.Lookup(swarmID); ok {
		listener.AsyncPrintln(display.FormatBriefing(s))
	}
	task, err := listener.Prompt("Mission Objective > ")
	if err != nil {
		return "", "", err
	}
	return swarmID, task, nil
}
