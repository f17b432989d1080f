package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"student-app/internal/domain"
)

// NewSyncCmd fetches a module from the configured source and stores it locally.
func NewSyncCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync [module-id]",
		Short: "Fetch a module and store it locally",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			moduleID := domain.ID(rt.cfg.Sync.ModuleID)
			if len(args) == 1 {
				if moduleID, err = domain.ParseID(args[0]); err != nil {
					return err
				}
			}
			synced, err := rt.service.SyncModule(cmd.Context(), moduleID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{"moduleId": moduleID, "synced": synced})
		},
	}
}

// NewImportCmd ingests a module document from a JSON file.
func NewImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <module.json>",
		Short: "Store a module document read from a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var doc domain.ModuleDocument
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
			}

			rt, err := openRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.service.IngestModule(cmd.Context(), &doc); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{"moduleId": doc.ID, "subjects": len(doc.Subjects)})
		},
	}
}

// NewProgressCmd prints the derived progress of a module.
func NewProgressCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "progress [module-id]",
		Short: "Show module progress",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			moduleID := domain.ID(rt.cfg.Sync.ModuleID)
			if len(args) == 1 {
				if moduleID, err = domain.ParseID(args[0]); err != nil {
					return err
				}
			}
			progress, err := rt.service.GetModuleProgress(cmd.Context(), moduleID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), progress)
		},
	}
}

type resultLine struct {
	domain.ResultView
	Performance string `json:"performance"`
}

// NewResultsCmd prints the attempt history of a subject, most recent first.
func NewResultsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "results <subject-id>",
		Short: "Show quiz attempts for a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subjectID, err := domain.ParseID(args[0])
			if err != nil {
				return err
			}
			rt, err := openRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			views, err := rt.service.GetResultsForSubject(cmd.Context(), subjectID)
			if err != nil {
				return err
			}
			lines := make([]resultLine, 0, len(views))
			for _, v := range views {
				lines = append(lines, resultLine{ResultView: v, Performance: domain.Performance(v.Score, v.TotalQuestions)})
			}
			return writeJSON(cmd.OutOrStdout(), lines)
		},
	}
}
