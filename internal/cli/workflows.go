package cli

import (
	"github.com/spf13/cobra"

	"github.com/ucdavis/VIPER-sub005/internal/model"
	"github.com/ucdavis/VIPER-sub005/internal/service"
)

func newHarvestCmd(configPath *string) *cobra.Command {
	var (
		termCode int
		runBy    string
	)

	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Run the harvest batch for a term (Created/Harvested terms only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			summary, err := a.svc.Harvest.Run(cmd.Context(), termCode, runBy)
			if err != nil {
				return err
			}
			return printJSON(summary)
		},
	}

	cmd.Flags().IntVar(&termCode, "term", 0, "six-digit term code (YYYYNN)")
	cmd.Flags().StringVar(&runBy, "run-by", model.SystemActor, "actor recorded on created rows")
	_ = cmd.MarkFlagRequired("term")

	return cmd
}

func newRolloverCmd(configPath *string) *cobra.Command {
	var (
		fromTerm int
		toTerm   int
		runBy    string
	)

	cmd := &cobra.Command{
		Use:   "rollover",
		Short: "Roll percent assignments from one fall term into the next",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			summary, err := a.svc.Rollover.Run(cmd.Context(), fromTerm, toTerm, runBy)
			if err != nil {
				return err
			}
			return printJSON(summary)
		},
	}

	cmd.Flags().IntVar(&fromTerm, "from", 0, "source fall term code")
	cmd.Flags().IntVar(&toTerm, "to", 0, "target fall term code")
	cmd.Flags().StringVar(&runBy, "run-by", model.SystemActor, "actor recorded on created rows")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newImportClinicalCmd(configPath *string) *cobra.Command {
	var (
		termCode int
		file     string
		runBy    string
	)

	cmd := &cobra.Command{
		Use:   "import-clinical",
		Short: "Import a clinical effort roster (.xlsx) into a semester term",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			summary, err := a.svc.Clinical.ImportFile(cmd.Context(), termCode, file, runBy)
			if err != nil {
				return err
			}
			return printJSON(summary)
		},
	}

	cmd.Flags().IntVar(&termCode, "term", 0, "six-digit term code (YYYYNN)")
	cmd.Flags().StringVar(&file, "file", "", "path to the roster .xlsx")
	cmd.Flags().StringVar(&runBy, "run-by", model.SystemActor, "actor recorded on created rows")
	_ = cmd.MarkFlagRequired("term")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newProvisionCmd(configPath *string) *cobra.Command {
	var (
		termCode   int
		personID   int64
		modifiedBy string
	)

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Provision the residency placeholder course (and optionally one person's record)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			if personID == 0 {
				course, outcome, err := a.svc.Provisioner.GetOrCreateGenericResidencyCourse(cmd.Context(), termCode)
				if err != nil {
					return err
				}
				return printJSON(map[string]interface{}{
					"outcome": outcome,
					"course":  course,
				})
			}

			outcome, err := a.svc.Provisioner.CreateResidencyEffortRecord(
				cmd.Context(), personID, termCode, modifiedBy, service.TriggerOnDemand)
			if err != nil {
				return err
			}
			return printJSON(map[string]interface{}{"outcome": outcome})
		},
	}

	cmd.Flags().IntVar(&termCode, "term", 0, "six-digit term code (YYYYNN)")
	cmd.Flags().Int64Var(&personID, "person", 0, "person id (omit to provision only the course)")
	cmd.Flags().StringVar(&modifiedBy, "modified-by", model.SystemActor, "actor recorded on created rows")
	_ = cmd.MarkFlagRequired("term")

	return cmd
}

func newTermCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "term",
		Short: "Term lookups",
	}

	var termCode int
	show := &cobra.Command{
		Use:   "show",
		Short: "Show a term and its workflow eligibility",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			eligibility, err := a.svc.Term.Eligibility(cmd.Context(), termCode)
			if err != nil {
				return err
			}
			return printJSON(eligibility)
		},
	}
	show.Flags().IntVar(&termCode, "code", 0, "six-digit term code (YYYYNN)")
	_ = show.MarkFlagRequired("code")

	current := &cobra.Command{
		Use:   "current",
		Short: "Show the most recently opened term",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			t, err := a.svc.Term.GetCurrent(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(t)
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all terms",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			terms, err := a.svc.Term.List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(terms)
		},
	}

	cmd.AddCommand(show, current, list)
	return cmd
}
