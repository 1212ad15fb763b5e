package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"net/url"
	"os"
	"reflect"
	"sync"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/events"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/go-tooling/pkg/metrics"
	"github.com/aukilabs/pointerbox/engine"
	"github.com/aukilabs/pointerbox/featureflag"
	pbhttp "github.com/aukilabs/pointerbox/http"
	"github.com/aukilabs/pointerbox/models"
	"github.com/aukilabs/pointerbox/scene"
	"github.com/aukilabs/pointerbox/sensor"
	"github.com/aukilabs/pointerbox/settings"
	pbwebsocket "github.com/aukilabs/pointerbox/websocket"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
)

var (
	// The Pointerbox version number. Set at build.
	version = "v0.1.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "pointerbox_info",
		Help:        "Pointerbox information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

// This will effectively disable obfuscation of the config struct. Without it, the keys would get obfuscated causing the cli package to generate garbled command-line options.
// https://github.com/burrowers/garble/issues/403
var _ = reflect.TypeOf(config{})

type config struct {
	SensorEndpoint string       `cli:""        env:"POINTERBOX_SENSOR_ENDPOINT" help:"The Leap Motion service WebSocket endpoint."`
	ReplayFile     string       `cli:""        env:"POINTERBOX_REPLAY_FILE"     help:"A file of recorded sensor messages, one per line, replayed instead of the sensor."`
	SettingsFile   string       `cli:""        env:"POINTERBOX_SETTINGS_FILE"   help:"The display settings file."`
	Addr           string       `cli:""        env:"POINTERBOX_ADDR"            help:"Listening address for renderer connections."`
	AdminAddr      string       `cli:""        env:"POINTERBOX_ADMIN_ADDR"      help:"Admin listening address."`
	FrameRate      int          `cli:",hidden" env:"POINTERBOX_FRAME_RATE"      help:"The number of frame loop iterations per second."`
	HistorySize    int          `cli:",hidden" env:"POINTERBOX_HISTORY_SIZE"    help:"The number of sensor frames kept in history."`
	LogLevel       string       `cli:""        env:"POINTERBOX_LOG_LEVEL"       help:"Log level (debug|info|warning|error)."`
	LogIndent      bool         `cli:""        env:"POINTERBOX_LOG_INDENT"      help:"Indent logs."`
	Events         eventsConfig `cli:",hidden" env:"-"                          help:"Event pusher configuration."`
	FeatureFlags   []string     `cli:",hidden" env:"POINTERBOX_FEATURE_FLAGS"   help:"Comma separated feature flags"`
	Version        bool         `cli:""        env:"-"                          help:"Show version."`
	Help           bool         `cli:""        env:"-"                          help:"Show help."`
}

type eventsConfig struct {
	Endpoint      string        `cli:",hidden" env:"POINTERBOX_EVENTS_ENDPOINT"       help:"Endpoint to where events are pushed."`
	FlushInterval time.Duration `cli:",hidden" env:"POINTERBOX_EVENTS_FLUSH_INTERVAL" help:"The duration between each event flush."`
	BatchSize     int           `cli:",hidden" env:"POINTERBOX_EVENTS_BATCH_SIZE"     help:"The maximum number of events sent at once."`
	QueueSize     int           `cli:",hidden" env:"POINTERBOX_EVENTS_QUEUE_SIZE"     help:"The size of the queue where events are stored."`
}

func defaultConfig() config {
	return config{
		SensorEndpoint: sensor.DefaultEndpoint,
		SettingsFile:   "settings.toml",
		Addr:           ":4000",
		AdminAddr:      ":18190",
		FrameRate:      engine.DefaultFrameRate,
		HistorySize:    60,
		LogLevel:       logs.InfoLevel.String(),
		Events: eventsConfig{
			FlushInterval: events.DefaultFlushInterval,
			BatchSize:     events.DefaultBatchSize,
			QueueSize:     events.DefaultQueueSize,
		},
	}
}

func main() {
	conf := defaultConfig()

	// set the information gauge to 1, useful for SUM query
	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Starts the Pointerbox gesture engine.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := validateConfig(conf); err != nil {
		logs.Fatal(err)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	errors.Encoder = json.Marshal

	if conf.Events.Endpoint != "" {
		eventsPusher := events.Pusher{
			Endpoint:      conf.Events.Endpoint,
			FlushInterval: conf.Events.FlushInterval,
			BatchSize:     conf.Events.BatchSize,
			QueueSize:     conf.Events.QueueSize,
			Transport:     metrics.HTTPTransport(http.DefaultTransport),
		}
		go eventsPusher.Start()
		defer eventsPusher.Close()

		eventsLogger := events.Logger{
			Pusher:           &eventsPusher,
			SDKType:          "pointerbox",
			SDKVersionFamily: version,
		}
		logs.SetLogger(eventsLogger.Log)
	}

	runID := uuid.NewString()

	s, err := settings.Load(conf.SettingsFile)
	if err != nil {
		logs.Fatal(errors.New("loading settings failed").Wrap(err))
	}

	var wg sync.WaitGroup

	source, readinessCheck, closeSource, err := newSource(ctx, &wg, conf)
	if err != nil {
		logs.Fatal(err)
	}
	defer closeSource()

	game := engine.NewGame(runID,
		models.NewVariableStore(nil),
		featureflag.New(conf.FeatureFlags),
	)
	game.Display = scene.Display{
		Width:  s.Display.Width,
		Height: s.Display.Height,
	}

	sceneServer := pbwebsocket.NewSceneServer()

	wg.Add(1)
	go func() {
		defer wg.Done()
		// Exiting the game stops the servers.
		defer cancel()

		err := game.Run(ctx, conf.FrameRate, source, sceneServer)
		if err != nil && err != context.Canceled {
			logs.WithTag("run_id", runID).
				Error(errors.New("frame loop stopped").Wrap(err))
		}
	}()

	var service http.ServeMux
	service.Handle("/", sceneServer.Handler(ctx))
	service.Handle("/scene.json", pbhttp.HandleWithCORS(http.HandlerFunc(sceneServer.HandleSnapshot)))
	service.Handle("/health", pbhttp.HandleWithCORS(http.HandlerFunc(pbhttp.HandleHealthCheck)))
	service.Handle("/version", pbhttp.HandleWithCORS(http.HandlerFunc(pbhttp.HandleVersion(version))))
	service.Handle("/ready", pbhttp.HandleWithCORS(http.HandlerFunc(pbhttp.HandleReadyCheck(readinessCheck))))

	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/health", pbhttp.HandleHealthCheck)
	admin.HandleFunc("/debug/pprof/", pprof.Index)
	admin.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	admin.HandleFunc("/debug/pprof/profile", pprof.Profile)
	admin.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	admin.HandleFunc("/debug/pprof/trace", pprof.Trace)
	admin.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
	admin.Handle("/debug/pprof/heap", pprof.Handler("heap"))
	admin.HandleFunc("/ready", pbhttp.HandleReadyCheck(readinessCheck))

	logs.WithTag("version", version).
		WithTag("run_id", runID).
		WithTag("log_level", conf.LogLevel).
		WithTag("sensor_endpoint", conf.SensorEndpoint).
		WithTag("replay_file", conf.ReplayFile).
		WithTag("display", s.Display).
		Info("starting pointerbox")

	pbhttp.ListenAndServe(ctx,
		&http.Server{Addr: conf.Addr, Handler: metrics.HTTPHandler(&service,
			pbhttp.MetricsPathFormatter)},
		&http.Server{Addr: conf.AdminAddr, Handler: &admin},
	)

	wg.Wait()
}

// newSource returns the frame source described by the config, its readiness
// check and a function releasing it. Background readers are tracked by wg.
func newSource(ctx context.Context, wg *sync.WaitGroup, conf config) (sensor.Source, func() bool, func(), error) {
	if conf.ReplayFile != "" {
		f, err := os.Open(conf.ReplayFile)
		if err != nil {
			return nil, nil, nil, errors.New("opening replay file failed").
				WithTag("file_name", conf.ReplayFile).
				Wrap(err)
		}

		replay := sensor.NewReplaySource(f, conf.HistorySize)
		return replay, func() bool { return true }, func() { f.Close() }, nil
	}

	src := sensor.NewWebSocketSource(conf.SensorEndpoint, conf.HistorySize)

	wg.Add(1)
	go func() {
		defer wg.Done()

		err := src.Run(ctx)
		if err != nil && err != context.Canceled {
			logs.Warn(errors.New("sensor reader stopped").Wrap(err))
		}
	}()
	return src, src.Connected, func() {}, nil
}

func validateConfig(conf config) error {
	if conf.FrameRate <= 0 {
		return errors.New("frame rate must be positive").
			WithTag("frame_rate", conf.FrameRate)
	}

	if conf.HistorySize < engine.TapLookback {
		return errors.New("history is smaller than the tap lookback").
			WithTag("history_size", conf.HistorySize).
			WithTag("tap_lookback", engine.TapLookback)
	}

	if conf.ReplayFile != "" {
		return nil
	}

	u, err := url.ParseRequestURI(conf.SensorEndpoint)
	if err != nil {
		return errors.New("invalid sensor endpoint").Wrap(err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return errors.New("sensor endpoint is not a websocket url").
			WithTag("endpoint", conf.SensorEndpoint)
	}
	return nil
}
