package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/cwbudde/algo-slopefilter/dsp/core"
	"github.com/cwbudde/algo-slopefilter/dsp/engine"
	"github.com/cwbudde/algo-slopefilter/internal/automation"
	"github.com/cwbudde/algo-slopefilter/internal/midicc"
)

var errQuit = errors.New("quit requested")

func runPlay(args []string, stdout io.Writer, log *logrus.Logger) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	var src sourceFlags
	src.register(fs, 4*time.Second)
	rate := fs.Int("rate", 48000, "device sample rate in Hz")
	channels := fs.Int("channels", 2, "device channel count")
	latency := fs.Duration("latency", 50*time.Millisecond, "device buffer length")
	block := fs.Int("block", 512, "processing block size")
	scriptPath := fs.String("script", "", "Lua automation script defining automate(t)")
	midiPort := fs.String("midi", "", "MIDI input name substring, or \"any\" (disabled when empty)")
	statePath := fs.String("state", "", "load parameters from a saved state file")
	save := fs.String("save", "", "write the final parameter state to this file")
	var set settings
	fs.Var(&set, "set", "override a parameter, e.g. cutoff=2000 (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := buildStore(*statePath, set)
	if err != nil {
		return err
	}

	source, err := src.generate(float64(*rate))
	if err != nil {
		return err
	}

	var script *automation.Script
	if *scriptPath != "" {
		script, err = automation.LoadFile(*scriptPath)
		if err != nil {
			return err
		}
		defer script.Close()
	}

	proc, err := engine.New(engine.WithStore(store), engine.WithLogger(log))
	if err != nil {
		return err
	}
	if err := proc.Prepare(float64(*rate), *block, *channels); err != nil {
		return err
	}

	var cleanup cleanupStack
	defer cleanup.run()
	cleanup.push(proc.Release)

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   *rate,
		ChannelCount: *channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   *latency,
	})
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	player := otoCtx.NewPlayer(newStream(proc, source, *channels))
	cleanup.push(func() { player.Close() })
	player.Play()
	log.WithFields(logrus.Fields{
		"rate":     *rate,
		"channels": *channels,
		"source":   src.kind,
	}).Info("playback started")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	started := time.Now()

	fd := int(os.Stdin.Fd())
	interactive := term.IsTerminal(fd)
	if interactive {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("set raw mode: %w", err)
		}
		cleanup.push(func() { _ = term.Restore(fd, oldState) })
		fmt.Fprintf(stdout, "%s\r\n", keyHelp)

		keys := readKeys(os.Stdin)
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case k, ok := <-keys:
					if !ok {
						return nil
					}
					quit, changed := handleKey(store, k)
					if quit {
						return errQuit
					}
					if changed {
						log.WithField("key", string(k)).Debug("parameter changed")
					}
				}
			}
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				fmt.Fprint(stdout, "\r\n")
				return nil
			case <-ticker.C:
				m := proc.Meter()
				fmt.Fprintf(stdout, "\r%s  out %6.1f dB  GR %4.1f dB\x1b[K", describe(store), toDBFS(m.OutputPeak), m.GainReductionDB)
			}
		}
	})

	if script != nil {
		g.Go(func() error {
			ticker := time.NewTicker(10 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case now := <-ticker.C:
					if err := script.Apply(store, now.Sub(started).Seconds()); err != nil {
						return err
					}
				}
			}
		})
	}

	if *midiPort != "" {
		port := *midiPort
		if port == "any" {
			port = ""
		}
		g.Go(func() error {
			err := midicc.Listen(ctx, store, midicc.DefaultMapping(), port, log)
			if errors.Is(err, midicc.ErrNoInput) {
				log.Warn("no MIDI input found, continuing without MIDI")
				return nil
			}
			return err
		})
	}

	if !interactive {
		g.Go(func() error {
			select {
			case <-ctx.Done():
			case <-time.After(src.duration):
			}
			return errQuit
		})
	}

	err = g.Wait()
	cleanup.run()
	if errors.Is(err, errQuit) {
		err = nil
	}
	if err != nil {
		return err
	}

	if *save != "" {
		return saveState(*save, store)
	}
	return nil
}

// cleanupStack releases playback resources in reverse order of
// acquisition. run may be called more than once.
type cleanupStack []func()

func (c *cleanupStack) push(fn func()) { *c = append(*c, fn) }

func (c *cleanupStack) run() {
	for i := len(*c) - 1; i >= 0; i-- {
		(*c)[i]()
	}
	*c = nil
}

// readKeys forwards single bytes from r until it fails. The reader
// goroutine is abandoned on exit since a terminal read cannot be
// interrupted portably.
func readKeys(r io.Reader) <-chan byte {
	ch := make(chan byte, 16)
	go func() {
		defer close(ch)
		buf := make([]byte, 1)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				ch <- buf[0]
			}
			if err != nil {
				return
			}
		}
	}()
	return ch
}

func toDBFS(peak float64) float64 {
	return max(core.LinearToDB(peak), -120)
}
