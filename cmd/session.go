package cmd

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/careertools/resume-allocator/pkg/config"
	"github.com/careertools/resume-allocator/pkg/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var sessionCompany string

//nolint:gochecknoglobals // Cobra boilerplate
var sessionRole string

//nolint:gochecknoglobals // Cobra boilerplate
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage interactive approval sessions",
	Long: `Sessions drive the interactive flow: each time a resume section is approved,
the section's content ids are committed to the session's usage ledger, blocking
their base identities and every conflict partner for the rest of the session.

A session never mixes with the one-shot allocate command; pick one discipline
per resume.`,
}

//nolint:gochecknoglobals // Cobra boilerplate
var sessionNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new approval session",
	Args:  cobra.NoArgs,
	RunE:  runSessionNew,
}

//nolint:gochecknoglobals // Cobra boilerplate
var sessionApproveCmd = &cobra.Command{
	Use:   "approve <session-id> <content-id>...",
	Short: "Commit an approved section's content ids to the session ledger",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runSessionApprove,
}

//nolint:gochecknoglobals // Cobra boilerplate
var sessionShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a session's record, including its usage ledger",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionShow,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionNewCmd)
	sessionCmd.AddCommand(sessionApproveCmd)
	sessionCmd.AddCommand(sessionShowCmd)

	sessionNewCmd.Flags().StringVar(&sessionCompany, "company", "", "Company name for the session")
	sessionNewCmd.Flags().StringVar(&sessionRole, "role", "", "Role title for the session")
	_ = sessionNewCmd.MarkFlagRequired("company")
	_ = sessionNewCmd.MarkFlagRequired("role")
}

// openSessionService wires config, registry, database, and logger for the
// session subcommands.
func openSessionService() (svc *session.Service, db *sql.DB, log *zap.SugaredLogger, err error) {
	log, err = buildLogger()
	if err != nil {
		return svc, db, log, err
	}

	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		return svc, db, log, err
	}

	registry, err := loadRegistry(cfg)
	if err != nil {
		return svc, db, log, err
	}

	db, err = session.InitDB(cfg.DataDir)
	if err != nil {
		return svc, db, log, err
	}

	svc = session.NewService(db, registry, log)
	return svc, db, log, err
}

func runSessionNew(cmd *cobra.Command, args []string) (err error) {
	svc, db, log, err := openSessionService()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	defer func() { _ = log.Sync() }()

	var id string
	id, err = svc.NewSession(context.Background(), sessionCompany, sessionRole)
	if err != nil {
		return err
	}

	fmt.Println(id)
	return err
}

func runSessionApprove(cmd *cobra.Command, args []string) (err error) {
	svc, db, log, err := openSessionService()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	defer func() { _ = log.Sync() }()

	sessionID := args[0]
	contentIDs := args[1:]

	var blocked []string
	blocked, err = svc.ApproveSection(context.Background(), sessionID, contentIDs)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(map[string]interface{}{
		"session_id":  sessionID,
		"committed":   contentIDs,
		"blocked_ids": blocked,
	}, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	return err
}

func runSessionShow(cmd *cobra.Command, args []string) (err error) {
	svc, db, log, err := openSessionService()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	defer func() { _ = log.Sync() }()

	var rec session.Record
	rec, err = svc.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	return err
}
