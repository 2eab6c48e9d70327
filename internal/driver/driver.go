package driver

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"makdo/internal/agent"
	"makdo/internal/api"
	"makdo/internal/config"
	"makdo/internal/conversation"
	"makdo/internal/session"
	"makdo/pkg/logging"
)

// State names one stage of the health-check cycle.
type State string

const (
	StateIdle      State = "idle"
	StateIssuing   State = "issuing"
	StateInjecting State = "injecting"
	StateAnalyzing State = "analyzing"
	StateReporting State = "reporting"
	StateResetting State = "resetting"
)

// analyzeTimeout bounds the coordinator invocation. The coordinator drives
// multi-agent LLM turns, so this is the longest external call in a cycle.
const analyzeTimeout = 5 * time.Minute

// defaultPrompt is the health-check request handed to the coordinator every
// cycle.
const defaultPrompt = "Perform a comprehensive health check across all registered clusters. " +
	"Use the Analyzer agent to identify any issues, then use the Slack Bot agent " +
	"to report findings to the #makdo-devops channel. " +
	"If critical issues are found, use the Fixer agent to attempt remediation."

// Cycle carries the per-cycle context handed to the coordinator.
type Cycle struct {
	ID           string
	Prompt       string
	SessionToken string
	ClusterName  string

	// Degraded marks a cycle running without a valid cluster session.
	Degraded bool
}

// Coordinator is the external analysis collaborator. Any error it returns is
// treated as a failed cycle, counted but never fatal to the loop.
type Coordinator interface {
	Analyze(ctx context.Context, cycle Cycle) (string, error)
}

// Reporter posts cycle findings to the chat channel.
type Reporter interface {
	PostMessage(ctx context.Context, channel, text string) error
}

// CredentialSource supplies the raw kubeconfig blob for a cluster when the
// driver needs to issue a fresh session.
type CredentialSource interface {
	Kubeconfig(ctx context.Context, cluster config.ClusterConfig) ([]byte, error)
}

// Config holds the driver's static inputs, read once at startup.
type Config struct {
	Cluster       config.ClusterConfig
	SessionTTL    time.Duration
	CheckInterval time.Duration
	Channel       string

	// Targets are the sub-agents that receive the session token each cycle.
	Targets []string

	// Prompt overrides the default coordinator prompt. Empty means default.
	Prompt string

	// StateFile, when set, receives the coordinator conversation on
	// shutdown.
	StateFile string
}

// Driver runs the health-check loop: issue a session when needed, inject the
// token into sub-agents, invoke the coordinator, report, reset, sleep. One
// cycle at a time, forever, until the context is cancelled. No stage failure
// ever terminates the loop.
type Driver struct {
	cfg         Config
	registry    *session.Registry
	issuer      *session.Issuer
	injector    *agent.Injector
	coordinator Coordinator
	reporter    Reporter
	creds       CredentialSource

	// coordinatorLog is the coordinator's owned conversation history,
	// reset to at most one system message after every cycle.
	coordinatorLog *conversation.Log

	currentToken string
	state        State

	cycles       atomic.Uint64
	failedCycles atomic.Uint64
}

// New creates a driver. The coordinator log is seeded with a single system
// message that survives every reset.
func New(cfg Config, registry *session.Registry, issuer *session.Issuer, injector *agent.Injector, coordinator Coordinator, reporter Reporter, creds CredentialSource) *Driver {
	if cfg.Prompt == "" {
		cfg.Prompt = defaultPrompt
	}
	return &Driver{
		cfg:            cfg,
		registry:       registry,
		issuer:         issuer,
		injector:       injector,
		coordinator:    coordinator,
		reporter:       reporter,
		creds:          creds,
		coordinatorLog: conversation.NewWithSystem("You are the MAKDO coordinator for multi-agent Kubernetes DevOps."),
		state:          StateIdle,
	}
}

// Cycles returns how many cycles have completed (including failed ones).
func (d *Driver) Cycles() uint64 { return d.cycles.Load() }

// FailedCycles returns how many cycles failed during analysis.
func (d *Driver) FailedCycles() uint64 { return d.failedCycles.Load() }

// CoordinatorLog exposes the coordinator history. Tests use it to check the
// between-cycle reset invariant.
func (d *Driver) CoordinatorLog() *conversation.Log { return d.coordinatorLog }

// Run executes health-check cycles until ctx is cancelled. Cancellation is
// checked between stages, so an in-flight coordinator call always finishes
// before the loop exits. On exit the conversation is saved if a state file
// is configured.
func (d *Driver) Run(ctx context.Context) error {
	logging.Info("Driver", "Starting health check loop (interval: %s)", d.cfg.CheckInterval)

	for {
		if ctx.Err() != nil {
			break
		}

		d.runCycle(ctx)

		select {
		case <-ctx.Done():
		case <-time.After(d.cfg.CheckInterval):
		}
		if ctx.Err() != nil {
			break
		}
	}

	logging.Info("Driver", "Shutting down after %d cycle(s) (%d failed)", d.Cycles(), d.FailedCycles())
	return d.saveState()
}

// runCycle performs one full Issuing → Injecting → Analyzing → Reporting →
// Resetting pass. Stage failures are isolated: each later stage still runs.
func (d *Driver) runCycle(ctx context.Context) {
	cycleID := uuid.NewString()[:8]
	logging.Info("Driver", "Cycle %s: initiating cluster health check", cycleID)

	// Issuing: only when there is no usable session.
	if d.registry.Get(d.currentToken) == nil {
		d.setState(StateIssuing)
		d.issueSession(ctx)
	}

	degraded := d.registry.Get(d.currentToken) == nil

	// Injecting.
	d.setState(StateInjecting)
	if !degraded {
		injected := d.injector.Inject(d.currentToken, d.cfg.Cluster.Name, d.cfg.Targets)
		if injected == 0 {
			logging.Warn("Driver", "Cycle %s: no sub-agents received the session token", cycleID)
		}
	} else {
		logging.Warn("Driver", "Cycle %s: no valid session, skipping injection (degraded mode)", cycleID)
	}

	// Analyzing. The stop signal must not abort an in-progress coordinator
	// call, so the analyze context is detached from ctx and bounded by its
	// own timeout.
	d.setState(StateAnalyzing)
	cycle := Cycle{
		ID:           cycleID,
		Prompt:       d.cfg.Prompt,
		SessionToken: d.currentToken,
		ClusterName:  d.cfg.Cluster.Name,
		Degraded:     degraded,
	}
	d.coordinatorLog.Append(conversation.KindUser, cycle.Prompt)

	analyzeCtx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	response, analyzeErr := d.coordinator.Analyze(analyzeCtx, cycle)
	cancel()

	if analyzeErr != nil {
		d.failedCycles.Add(1)
		logging.Error("Driver", api.NewTransientError("analyzing", analyzeErr),
			"Cycle %s: health check failed", cycleID)
	} else {
		d.coordinatorLog.Append(conversation.KindAssistant, response)
		logging.Info("Driver", "Cycle %s: health check completed", cycleID)
	}

	// Reporting: failures are warnings only.
	d.setState(StateReporting)
	d.report(cycleID, degraded, response, analyzeErr)

	// Resetting: bound memory growth across cycles.
	d.setState(StateResetting)
	d.coordinatorLog.Reset()

	d.setState(StateIdle)
	d.cycles.Add(1)
}

// issueSession obtains a kubeconfig and issues a fresh session. Failure
// leaves the driver in degraded mode for this cycle; it never aborts the
// loop.
func (d *Driver) issueSession(ctx context.Context) {
	d.currentToken = ""

	kubeconfig, err := d.creds.Kubeconfig(ctx, d.cfg.Cluster)
	if err != nil {
		logging.Error("Driver", err, "Failed to obtain kubeconfig for cluster %s", d.cfg.Cluster.Name)
		return
	}

	result, err := d.issuer.Issue(ctx, d.cfg.Cluster.Name, kubeconfig, d.cfg.Cluster.Context, d.cfg.SessionTTL, "makdo-driver")
	if err != nil {
		logging.Error("Driver", err, "Failed to create session for cluster %s", d.cfg.Cluster.Name)
		return
	}

	d.currentToken = result.Token
	logging.Info("Driver", "Created session %s for cluster %s (connectivity: %s)",
		session.TokenPreview(result.Token), d.cfg.Cluster.Name, result.Connectivity)
}

// report posts the cycle outcome to chat.
func (d *Driver) report(cycleID string, degraded bool, response string, analyzeErr error) {
	if d.reporter == nil {
		return
	}

	var text string
	switch {
	case analyzeErr != nil:
		text = fmt.Sprintf(":warning: MAKDO cycle %s failed: %v", cycleID, analyzeErr)
	case degraded:
		text = fmt.Sprintf(":warning: MAKDO cycle %s ran in degraded mode (no cluster session). %s", cycleID, preview(response, 300))
	default:
		text = fmt.Sprintf("MAKDO cycle %s completed. %s", cycleID, preview(response, 300))
	}

	reportCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := d.reporter.PostMessage(reportCtx, d.cfg.Channel, text); err != nil {
		logging.Warn("Driver", "Cycle %s: failed to post report: %v", cycleID, err)
	}
}

func (d *Driver) setState(s State) {
	d.state = s
	logging.Debug("Driver", "State: %s", s)
}

// saveState persists the coordinator conversation if a sink is configured.
func (d *Driver) saveState() error {
	if d.cfg.StateFile == "" {
		return nil
	}
	f, err := os.Create(d.cfg.StateFile)
	if err != nil {
		return fmt.Errorf("cannot save conversation state: %w", err)
	}
	defer f.Close()
	if err := d.coordinatorLog.Save(f); err != nil {
		return fmt.Errorf("cannot save conversation state: %w", err)
	}
	logging.Info("Driver", "Saved conversation state to %s", d.cfg.StateFile)
	return nil
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
