package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/bridge"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/config"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/core/model"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/gateway"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/ledger"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/monitor"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/presentation/display"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/reconciler"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/store"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/util"
)

// App wires the monitor, ledger, reconciler, gateway, bridge, and stores,
// and runs the background loops. Each loop is an independent goroutine; a
// stall in one (a slow remote call) never delays the accumulation tick.
type App struct {
	cfg        *config.Config
	configPath string

	gw        *gateway.Client
	mon       *monitor.Monitor
	led       *ledger.Ledger
	recon     *reconciler.Reconciler
	bridgeSrv *bridge.Server
	credFile  *store.CredentialFile
	archive   *store.Archive
	disp      *display.TerminalDisplay

	mu           sync.Mutex
	userID       string
	lastSync     time.Time
	lastError    string
	portalActive bool
	officeHours  ledger.Hours
	pollEvery    time.Duration
}

// New builds the full component graph from config. configPath is watched
// for hot reload; empty disables watching.
func New(cfg *config.Config, configPath string, headless bool) (*App, error) {
	stateFile, err := store.NewStateFile(cfg.StateDir)
	if err != nil {
		return nil, err
	}

	archive, err := store.OpenArchive(cfg.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history archive: %w", err)
	}

	a := &App{
		cfg:         cfg,
		configPath:  configPath,
		gw:          gateway.NewClient(cfg.BaseURL, time.Duration(cfg.RequestTimeout)*time.Second),
		mon:         monitor.New(cfg.IdleThresholdSeconds, cfg.JitterPixels, cfg.LongPressSeconds),
		credFile:    store.NewCredentialFile(cfg.StateDir),
		archive:     archive,
		officeHours: ledger.Hours{Start: cfg.OfficeStartHour, End: cfg.OfficeEndHour},
		pollEvery:   cfg.PollInterval(),
	}

	a.led = ledger.New(stateFile, a.mon,
		ledger.Hours{Start: cfg.OfficeStartHour, End: cfg.OfficeEndHour},
		cfg.TargetHours, cfg.SaveInterval())
	a.recon = reconciler.New(a.led, a.onSessionEvent)

	a.bridgeSrv = bridge.NewServer(cfg.ListenAddr, bridge.Handlers{
		Sync: func(u model.SyncUpdate) {
			a.recon.ProcessSync(u)
			a.noteSync(u.Status)
		},
		Start: func() {
			a.mon.Start()
			a.recon.StartManual()
		},
		Stop: func() {
			a.recon.ForceStop("manual stop")
		},
	})

	if !headless {
		a.disp = display.NewTerminalDisplay()
	}
	return a, nil
}

// Login authenticates against the gateway. Empty credentials fall back to
// the saved session file.
func (a *App) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		creds, found := a.credFile.Load()
		if !found {
			return errors.New("no saved session; supply --user and --password")
		}
		username, password = creds.Username, creds.Password
		util.LogInfo("Auto-login with saved session")
	}

	if err := a.gw.Login(ctx, username, password); err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			a.credFile.Clear()
		}
		return err
	}

	if err := a.credFile.Save(store.Credentials{
		Username:   username,
		Password:   password,
		EmployeeID: a.gw.EmployeeID,
	}); err != nil {
		util.LogWarnf("Could not save session: %v", err)
	}

	a.mu.Lock()
	a.userID = a.gw.EmployeeID
	a.mu.Unlock()
	a.led.Restore(a.gw.EmployeeID)
	return nil
}

// Run starts every loop and blocks until ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.mon.Start()

	// Input events from the OS, bridge pushes, remote polls, and the
	// accumulation tick all run independently.
	source := monitor.NewInputSource(a.cfg.InputDeviceDir, a.mon)
	go func() {
		if err := source.Run(ctx); err != nil {
			util.LogWarnf("Input source stopped: %v", err)
		}
	}()

	go a.bridgeSrv.Run(ctx)

	cronJobs := a.startCron(ctx)
	defer cronJobs.Stop()

	if a.configPath != "" {
		watcher, err := config.NewWatcher(a.configPath, a.applyConfig)
		if err != nil {
			util.LogDebugf("Config watcher unavailable: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	go a.pollLoop(ctx)
	go a.accumulationLoop(ctx)

	if a.disp != nil {
		a.displayLoop(ctx)
	} else {
		<-ctx.Done()
	}

	// Final save on the way out; a crash between throttled saves may
	// lose one interval, a clean shutdown must not.
	a.led.Persist()
	util.LogInfo("Shutting down")
	return nil
}

// accumulationLoop drives the ledger at sub-second granularity. Deltas
// come from wall time between iterations, not the nominal interval, so a
// delayed wakeup never loses time.
func (a *App) accumulationLoop(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.TickInterval())
	defer ticker.Stop()

	last := util.GetTimeProvider().Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := util.GetTimeProvider().Now()
			delta := now.Sub(last).Seconds()
			last = now
			a.advance(delta)
		}
	}
}

// advance feeds one tick into the ledger. A day rollover clears the
// reconciler's session identity and archives the outgoing day.
func (a *App) advance(delta float64) {
	rolled, outgoing := a.led.Tick(delta)
	if rolled {
		a.recon.ResetSession()
		a.archiveDay(outgoing)
	}
}

// pollLoop asks the gateway for the latest punch record at a coarse
// interval and feeds it to the reconciler.
func (a *App) pollLoop(ctx context.Context) {
	interval := a.pollInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.pollOnce(ctx)
			if cur := a.pollInterval(); cur != interval {
				interval = cur
				ticker.Reset(interval)
			}
		}
	}
}

func (a *App) pollInterval() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pollEvery
}

func (a *App) pollOnce(ctx context.Context) {
	rec, err := a.gw.FetchAttendance(ctx)
	if err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			a.setError("Session expired. Please login again.")
		} else {
			util.LogWarnf("Poll failed: %v", err)
		}
		return
	}

	a.setError("")
	a.recon.ProcessSync(model.SyncUpdate{
		PunchIn:           rec.PunchIn,
		PunchOut:          rec.PunchOut,
		Date:              rec.Date,
		Status:            rec.RawStatus,
		WorkedStr:         rec.WorkedStr,
		ServerWorkSeconds: rec.ServerWorkSeconds,
	})
	a.noteSync(rec.RawStatus)
}

// startCron schedules the telemetry heartbeat and the end-of-day archive
// snapshot.
func (a *App) startCron(ctx context.Context) *cron.Cron {
	c := cron.New(cron.WithSeconds())

	if _, err := c.AddFunc(a.cfg.HeartbeatSchedule, func() {
		a.sendHeartbeat(ctx)
	}); err != nil {
		util.LogWarnf("Invalid heartbeat schedule %q: %v", a.cfg.HeartbeatSchedule, err)
	}

	// Snapshot today's totals into the archive just before midnight.
	if _, err := c.AddFunc("0 59 23 * * *", func() {
		a.archiveDay(dayRecordFromSnapshot(a.led.Snapshot()))
	}); err != nil {
		util.LogWarnf("Could not schedule archive job: %v", err)
	}

	c.Start()
	return c
}

func (a *App) sendHeartbeat(ctx context.Context) {
	if !a.recon.TrackingActive() {
		return
	}

	a.mu.Lock()
	hours := a.officeHours
	a.mu.Unlock()

	status := "OUT_OF_HOURS"
	if hours.Contains(util.GetTimeProvider().Now().Hour()) {
		state, _ := a.mon.Status()
		status = string(state)
	}
	a.gw.UploadActivity(ctx, status, 30)
}

func (a *App) displayLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.mu.Lock()
			lastSync := a.lastSync
			portal := a.portalActive
			a.mu.Unlock()

			a.disp.Render(display.Status{
				Snapshot:        a.led.Snapshot(),
				EmployeeID:      a.gw.EmployeeID,
				Role:            a.gw.Role,
				BridgeConnected: a.bridgeSrv.Connected(),
				PortalActive:    portal,
				LastSync:        lastSync,
			})
		}
	}
}

// onSessionEvent records session boundaries into the archive.
func (a *App) onSessionEvent(kind, detail string) {
	a.mu.Lock()
	userID := a.userID
	a.mu.Unlock()
	if userID == "" {
		return
	}

	ev := model.SessionEvent{
		Timestamp: util.GetTimeProvider().Now().Unix(),
		Kind:      kind,
		Detail:    detail,
	}
	if err := a.archive.RecordEvent(userID, ev); err != nil {
		util.LogWarnf("Could not record session event: %v", err)
	}
}

func (a *App) archiveDay(rec model.DayRecord) {
	if rec.Date == "" {
		return
	}
	a.mu.Lock()
	userID := a.userID
	a.mu.Unlock()
	if userID == "" {
		return
	}
	if err := a.archive.ArchiveDay(userID, rec); err != nil {
		util.LogWarnf("Could not archive day %s: %v", rec.Date, err)
	}
}

// applyConfig applies hot-reloadable tunables from a changed config file.
// Addresses and paths stay as loaded at startup.
func (a *App) applyConfig(cfg *config.Config) {
	a.mon.SetIdleThreshold(cfg.IdleThresholdSeconds)

	hours := ledger.Hours{Start: cfg.OfficeStartHour, End: cfg.OfficeEndHour}
	a.led.SetHours(hours)

	a.mu.Lock()
	a.officeHours = hours
	a.pollEvery = cfg.PollInterval()
	a.mu.Unlock()

	util.LogInfof("Applied config: idle_threshold=%.0fs office_hours=[%d,%d) poll_interval=%s",
		cfg.IdleThresholdSeconds, cfg.OfficeStartHour, cfg.OfficeEndHour, cfg.PollInterval())
}

// noteSync records the sync time and whether the portal's raw status
// reads as an active punch. The flag is an advisory hint for the
// dashboard; session decisions stay with the reconciler.
func (a *App) noteSync(rawStatus string) {
	a.mu.Lock()
	a.lastSync = time.Now()
	a.portalActive = gateway.StatusLooksActive(rawStatus)
	a.mu.Unlock()
}

func (a *App) setError(msg string) {
	a.mu.Lock()
	if msg != "" && msg != a.lastError {
		util.LogError(msg)
	}
	a.lastError = msg
	a.mu.Unlock()
}

// Close releases held resources.
func (a *App) Close() {
	a.archive.Close()
}

func dayRecordFromSnapshot(snap model.DaySnapshot) model.DayRecord {
	return model.DayRecord{
		Date:   snap.Date,
		Work:   snap.Work,
		Idle:   snap.Idle,
		Hourly: snap.Hourly,
	}
}
