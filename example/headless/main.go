package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/maskfall/sim/game"
	"github.com/maskfall/sim/session"
	"github.com/maskfall/sim/settings"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
)

var CLI struct {
	Debug bool `help:"Whether to enable debug logging."`

	Run struct {
		Scenario string `arg:"" name:"scenario" help:"Scenario file to run." type:"existingfile"`
		Settings string `help:"Settings file, created with the defaults if missing." default:"settings.toml"`
		Record   string `help:"Write a recording of every frame to this file."`
	} `cmd:"" help:"Run a scenario headlessly."`

	Replay struct {
		Recording string `arg:"" name:"recording" help:"Recording file to summarise." type:"existingfile"`
	} `cmd:"" help:"Print a summary of a recording."`

	Config struct {
	} `cmd:"" help:"Write the default settings to standard output."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

// The following program runs a maskfall session without a renderer, driven by a scenario file.
func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("headless"),
		kong.Description("run maskfall simulation scenarios without a renderer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}
	log.Level = logrus.InfoLevel
	if CLI.Debug {
		log.Level = logrus.DebugLevel
		log.Warn("debug logging enabled")
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			log.Errorf("unable to initialise sentry: %v", err)
		}
		defer sentry.Flush(time.Second * 5)
	}

	if os.Getenv("STATSVIEW_ENABLED") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
	}

	var err error
	switch ctx.Command() {
	case "run <scenario>":
		err = run(log)
	case "replay <recording>":
		err = replay()
	case "config":
		var data []byte
		if data, err = toml.Marshal(settings.DefaultSettings()); err == nil {
			_, err = os.Stdout.Write(data)
		}
	}
	if err != nil {
		writeError(err)
	}
}

func run(log *logrus.Logger) error {
	conf, err := settings.LoadOrCreate(CLI.Run.Settings)
	if err != nil {
		return fmt.Errorf("unable to load settings: %w", err)
	}
	sc, err := LoadScenario(CLI.Run.Scenario)
	if err != nil {
		return err
	}

	c := session.Config{Settings: conf, Logger: log}
	if err := sc.Config(&c); err != nil {
		return err
	}
	s, err := session.New(c)
	if err != nil {
		return err
	}

	if CLI.Run.Record != "" {
		f, err := os.Create(CLI.Run.Record)
		if err != nil {
			return fmt.Errorf("unable to create recording file: %w", err)
		}
		defer f.Close()
		if err := s.StartRecording(f); err != nil {
			return err
		}
	}

	var last session.Frame
	for i := 0; i < sc.Frames; i++ {
		sc.Apply(i, s)
		last = s.Tick(sc.Delta, sc.Input(i))
	}

	if s.Recording() {
		if err := s.StopRecording(); err != nil {
			return err
		}
	}
	printFrame(last)
	return nil
}

func replay() error {
	f, err := os.Open(CLI.Replay.Recording)
	if err != nil {
		return fmt.Errorf("unable to open recording file: %w", err)
	}
	defer f.Close()

	rec, err := session.ReadRecording(f)
	if err != nil {
		return err
	}
	fmt.Printf("recording v%s: %d frames\n", rec.Version, len(rec.Frames))
	if n := len(rec.Frames); n > 0 {
		printFrame(rec.Frames[n-1])
	}
	return nil
}

func printFrame(f session.Frame) {
	fmt.Printf("tick %d (%.2fs)\n", f.Tick, f.Time)
	fmt.Printf("  player    %s at %v, surface %s, mount %q\n", f.Player.State, game.RoundVec64(f.Player.Position, 2), f.Player.Surface, f.Player.Mount)
	fmt.Printf("  camera    %s at %v\n", f.Camera.Mode, game.RoundVec64(f.Camera.Position, 2))
	fmt.Printf("  adversary %s/%s at %v, health %d\n", f.Adversary.Mode, f.Adversary.State, game.RoundVec64(f.Adversary.Position, 2), f.Adversary.Health)
}
