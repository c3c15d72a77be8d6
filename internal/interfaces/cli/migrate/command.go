// Package migrate wires the migration pipeline together and exposes it as the
// main CLI command.
package migrate

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	appMigration "tixport/internal/application/migration"
	vo "tixport/internal/domain/ticket/valueobjects"
	"tixport/internal/infrastructure/config"
	"tixport/internal/infrastructure/database"
	"tixport/internal/infrastructure/jira"
	"tixport/internal/infrastructure/repository"
	sftpclient "tixport/internal/infrastructure/sftp"
	"tixport/internal/shared/biztime"
	"tixport/internal/shared/logger"
	"tixport/internal/shared/services/wikitext"
)

var (
	configPath       string
	ticketNumber     string
	allTickets       bool
	fetchAttachments bool
	cleanScratch     bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate helpdesk tickets to the issue tracker",
		Long: `Migrate reads tickets from the helpdesk database and recreates them as
issues in the destination tracker: one issue per ticket, one comment per
follow-up message, attachments re-uploaded, priority mapped, and the issue
closed. Already-migrated tickets are detected by label and skipped.`,
		RunE: run,
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./config.yaml, ./configs/config.yaml)")
	cmd.Flags().StringVarP(&ticketNumber, "ticket", "t", "", "Migrate a single ticket by number")
	cmd.Flags().BoolVar(&allTickets, "all", false, "Migrate every ticket in the source database")
	cmd.Flags().BoolVar(&fetchAttachments, "fetch-attachments", false, "Fetch stored attachments over SFTP and upload them")
	cmd.Flags().BoolVar(&cleanScratch, "clean-scratch", false, "Remove the staged attachment files after the run")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if ticketNumber == "" && !allTickets {
		return fmt.Errorf("exactly one of --ticket or --all is required")
	}
	if ticketNumber != "" && allTickets {
		return fmt.Errorf("--ticket and --all are mutually exclusive")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := biztime.Init(cfg.Migration.DisplayTimezone); err != nil {
		return fmt.Errorf("failed to load display timezone: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to connect to source database: %w", err)
	}
	defer database.Close()

	var transfer appMigration.FileTransfer
	if fetchAttachments {
		sftpClient, err := sftpclient.Connect(&cfg.SFTP)
		if err != nil {
			return fmt.Errorf("failed to open sftp session: %w", err)
		}
		defer sftpClient.Close()
		transfer = sftpClient
	}

	log := logger.NewLogger()
	source := repository.NewSourceReader(database.Get())
	destination := jira.NewDestination(jira.NewClient(&cfg.Jira), &cfg.Jira)

	composer := appMigration.NewComposer(
		wikitext.NewService(cfg.Migration.OldHostPrefix, cfg.Migration.NewHostPrefix),
		cfg.Migration.LabelPrefix,
		cfg.Migration.MaxDescriptionLen,
		log.Named("composer"),
	)
	fetcher := appMigration.NewFetcher(
		transfer,
		cfg.SFTP.RemoteBasePath,
		filepath.Join(cfg.Migration.ScratchDir, fmt.Sprintf("run-%d", os.Getpid())),
		log.Named("fetcher"),
	)
	orchestrator := appMigration.NewOrchestrator(
		source,
		destination,
		composer,
		fetcher,
		vo.NewPriorityMap(cfg.Migration.PriorityMap, cfg.Migration.DefaultPriority),
		cfg.Migration.LabelPrefix,
		cfg.Jira.DoneTransitionID,
		cfg.Migration.UploadWorkers,
		log.Named("orchestrator"),
	)

	req := appMigration.RunRequest{
		Mode:                   appMigration.ModeAll,
		FetchStoredAttachments: fetchAttachments,
	}
	if ticketNumber != "" {
		req.Mode = appMigration.ModeSingle
		req.TicketNumber = ticketNumber
	}

	summary, runErr := orchestrator.Run(ctx, req)
	fmt.Fprint(cmd.OutOrStdout(), summary.Render())

	// Staged attachments are left on disk as a run artifact unless asked.
	if cleanScratch {
		if err := fetcher.Cleanup(); err != nil {
			log.Warnw("failed to remove staged attachments", "error", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("run aborted: %w", runErr)
	}
	if summary.Failed() > 0 {
		return fmt.Errorf("%d ticket(s) failed", summary.Failed())
	}
	return nil
}
