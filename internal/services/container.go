package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"argus-worker-go/internal/alerts"
	"argus-worker-go/internal/config"
	"argus-worker-go/internal/engine"
	"argus-worker-go/internal/messaging"
	"argus-worker-go/internal/metrics"
	"argus-worker-go/internal/models"
	"argus-worker-go/internal/publisher"
	"argus-worker-go/internal/session"
	"argus-worker-go/internal/store"
	"argus-worker-go/internal/ws"
)

// ServiceContainer wires the worker together: model engine, threshold
// policy (with persistence), frame source, session controller, and the
// alert/display sinks.
type ServiceContainer struct {
	Config     *config.Config
	Engine     engine.Engine
	Policy     *session.ThresholdPolicy
	SourceMgr  *session.SourceManager
	Controller *session.Controller
	Messaging  *messaging.Service
	Hub        *ws.AlertHub
	Publisher  *publisher.MJPEGPublisher
	Metrics    *metrics.Metrics
	Store      *store.Store
}

// NewServiceContainer builds and wires all services. Model load failure is
// fatal; a NATS outage degrades to log-only alert delivery.
func NewServiceContainer(cfg *config.Config) (*ServiceContainer, error) {
	eng, err := engine.LoadDNN(cfg.ModelPath, cfg.ClassNamesPath, cfg.InputSize)
	if err != nil {
		return nil, fmt.Errorf("loading detection model: %w", err)
	}

	policy := session.NewThresholdPolicy(eng.ClassNames())

	var st *store.Store
	if cfg.DBPath != "" {
		st, err = store.New(cfg.DBPath)
		if err != nil {
			eng.Close()
			return nil, fmt.Errorf("opening threshold store: %w", err)
		}
		if err := st.Migrate(); err != nil {
			st.Close()
			eng.Close()
			return nil, fmt.Errorf("migrating threshold store: %w", err)
		}
		applyPersistedSettings(st, policy)
	}

	hub := ws.NewAlertHub()
	pub := publisher.NewMJPEGPublisher(cfg.StreamQuality)
	m := metrics.New()

	alertSinks := []session.AlertSink{
		alerts.NewLogSink(),
		alerts.NewHubSink(hub, cfg.WorkerID),
	}

	var msg *messaging.Service
	if cfg.NatsEnabled {
		msg, err = messaging.NewService(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("NATS unavailable, alerts limited to log and WebSocket delivery")
			msg = nil
		} else {
			alertSinks = append(alertSinks, alerts.NewNATSSink(msg, cfg.AlertsSubject, cfg.WorkerID))
		}
	}

	sourceMgr := session.NewSourceManager()

	controller := session.NewController(session.ControllerOptions{
		Source:             sourceMgr,
		Engine:             eng,
		Policy:             policy,
		Displays:           []session.DisplaySink{pub},
		Alerts:             alertSinks,
		Metrics:            m,
		VideoFrameInterval: cfg.VideoFrameInterval,
	})

	sc := &ServiceContainer{
		Config:     cfg,
		Engine:     eng,
		Policy:     policy,
		SourceMgr:  sourceMgr,
		Controller: controller,
		Messaging:  msg,
		Hub:        hub,
		Publisher:  pub,
		Metrics:    m,
		Store:      st,
	}

	sc.configureDefaultSource()
	return sc, nil
}

// applyPersistedSettings overlays stored thresholds onto the freshly
// seeded policy. Stale rows for classes the current model does not know
// are skipped.
func applyPersistedSettings(st *store.Store, policy *session.ThresholdPolicy) {
	settings, err := st.LoadSettings()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load persisted thresholds, using defaults")
		return
	}

	applied := 0
	for class, setting := range settings {
		if err := policy.SetThreshold(class, setting.Threshold); err != nil {
			log.Debug().Str("class", class).Msg("Skipping persisted threshold for unknown class")
			continue
		}
		if err := policy.SetEnabled(class, setting.Enabled); err == nil {
			applied++
		}
	}
	if applied > 0 {
		log.Info().Int("classes", applied).Msg("Restored persisted threshold settings")
	}
}

// configureDefaultSource points the source manager at the configured
// default. The handle is not required to open here; session start retries.
func (sc *ServiceContainer) configureDefaultSource() {
	var src models.Source
	if path := sc.Config.DefaultSourcePath; path != "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".jpg", ".jpeg", ".png", ".bmp":
			src = models.ImageSource(path)
		default:
			src = models.VideoSource(path)
		}
	} else {
		src = models.CameraSource(sc.Config.DefaultCameraIndex)
	}

	if err := sc.SourceMgr.SetSource(src); err != nil {
		log.Warn().Err(err).Str("source", src.Describe()).Msg("Default source not available yet")
	}
}

// ApplyThreshold updates the live policy and persists the change.
func (sc *ServiceContainer) ApplyThreshold(class string, threshold float64) error {
	if err := sc.Policy.SetThreshold(class, threshold); err != nil {
		return err
	}
	sc.persist(class)
	return nil
}

// ApplyEnabled updates the live policy and persists the change.
func (sc *ServiceContainer) ApplyEnabled(class string, enabled bool) error {
	if err := sc.Policy.SetEnabled(class, enabled); err != nil {
		return err
	}
	sc.persist(class)
	return nil
}

func (sc *ServiceContainer) persist(class string) {
	if sc.Store == nil {
		return
	}
	threshold, err := sc.Policy.Threshold(class)
	if err != nil {
		return
	}
	setting := store.ClassSetting{
		Class:     class,
		Threshold: threshold,
		Enabled:   sc.Policy.IsEnabled(class),
	}
	if err := sc.Store.SaveSetting(setting); err != nil {
		log.Warn().Err(err).Str("class", class).Msg("Failed to persist threshold setting")
	}
}

// Shutdown gracefully shuts down all services.
func (sc *ServiceContainer) Shutdown(ctx context.Context) error {
	if sc.Controller != nil {
		if err := sc.Controller.Stop(); err != nil {
			log.Warn().Err(err).Msg("Session did not stop cleanly")
		}
	}

	if sc.Publisher != nil {
		sc.Publisher.Shutdown()
	}

	if sc.Messaging != nil {
		if err := sc.Messaging.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("NATS shutdown reported an error")
		}
	}

	if sc.Store != nil {
		if err := sc.Store.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close threshold store")
		}
	}

	if sc.Engine != nil {
		if err := sc.Engine.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to release detection model")
		}
	}

	return nil
}
