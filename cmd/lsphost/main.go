package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lsphost/lsphost"
	"github.com/lsphost/lsphost/logger"
	"github.com/mkideal/cli"
	"go.uber.org/zap"
)

const (
	// header (default) or line
	envFraming = "LSPHOST_FRAMING"
	// serve websocket connections on this address instead of stdio
	envListen = "LSPHOST_LISTEN"
)

type opts struct {
	cli.Helper
	*zap.Logger

	Debug bool `cli:"debug" usage:"Write every message to messages-<timestamp>.log"`

	in  io.Reader `cli:"-"`
	out io.Writer `cli:"-"`
}

func (opts *opts) configureLogging() (err error) {
	if opts.Debug {
		opts.Logger, err = zap.NewDevelopment()
	} else {
		opts.Logger, err = zap.NewProduction()
	}
	if err != nil {
		return
	}
	logger.UseZap(opts.Logger.Named("lsphost"))
	if opts.Debug {
		logger.SetLevel(logger.LevelDebug)
	} else {
		logger.SetLevel(logger.LevelInfo)
	}
	return
}

func (opts *opts) run(ctx context.Context) (err error) {
	mode, err := lsphost.ParseFramingMode(os.Getenv(envFraming))
	if err != nil {
		return
	}

	var transcript *lsphost.Transcript
	if opts.Debug {
		transcript, err = lsphost.OpenTranscript(".", time.Now())
		if err != nil {
			// diagnostics only
			opts.Logger.Warn("open transcript failed", zap.Error(err))
			err = nil
		}
	}
	if transcript != nil {
		defer func() {
			transcript.Printf("Exited")
			_ = transcript.Close()
		}()
	}

	if addr := os.Getenv(envListen); addr != "" {
		opts.Logger.Info("listen websocket", zap.String("addr", addr))
		return lsphost.ListenWebsocket(ctx, addr, "/", func() (*lsphost.Host, error) {
			return newHost(transcript)
		})
	}

	h, err := newHost(transcript)
	if err != nil {
		return
	}
	return h.Serve(ctx, lsphost.NewStreamConn(opts.in, opts.out, mode))
}

func newHost(transcript *lsphost.Transcript) (*lsphost.Host, error) {
	session := lsphost.NewSession()
	b := lsphost.NewHost().
		Session(session).
		Options(lsphost.OptionConsistentResponseSequence).
		UseCancellationHandling()
	register(b)
	if transcript != nil {
		transcript.Attach(session)
		b.Intercept(transcript.Interceptor())
	}
	return b.Build()
}

func main() {
	os.Exit(execute(os.Args, os.Stdin, os.Stdout))
}

// execute runs the command line over in and out and returns the exit code.
// A broken or malformed stream exits with 1.
func execute(args []string, in io.Reader, out io.Writer) (code int) {
	cli.RunWithArgs(&opts{in: in, out: out}, args, func(cmdline *cli.Context) (err error) {
		opts := cmdline.Argv().(*opts)
		if err = opts.configureLogging(); err != nil {
			code = 1
			return
		}
		defer opts.Logger.Sync()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		if err = opts.run(ctx); err != nil {
			opts.Logger.Error("host exit", zap.Error(err))
			code = 1
		}
		return
	}, "lsphost serves a language server over stdin/stdout")
	return
}
