package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/lestrrat-go/xmlpush"
	"github.com/lestrrat-go/xmlpush/encoding"
	"github.com/lestrrat-go/xmlpush/internal/cliutil"
	"github.com/lestrrat-go/xmlpush/resolver"
)

type cmdopts struct {
	Config             string `long:"config"`
	Encoding           string `long:"encoding"`
	ParamEntityParsing string `long:"param-entity-parsing"`
	Chunk              int    `long:"chunk"`
	Events             bool   `long:"events"`
	Charmap            bool   `long:"charmap"`
	SkipExternal       bool   `long:"skip-external"`
	Trace              bool   `long:"trace"`
	Version            bool   `long:"version"`
}

func main() {
	os.Exit(_main())
}

func showVersion() {
	fmt.Printf("xmlpush-lint: using xmlpush version %s\n", xmlpush.Version)
}

func showUsage() {
	fmt.Printf(`Usage : xmlpush-lint [options] XMLfiles ...
	Parse the XML files and report whether they are well-formed
	--config FILE : read settings and external entities from a TOML file
	--encoding NAME : override the encoding of the input
	--param-entity-parsing never|unless-standalone|always
	--chunk N : feed the input N bytes at a time
	--events : print the parse events
	--charmap : negotiate unknown single-byte encodings by IANA name
	--skip-external : accept external entities without reading them
	--trace : log parser state changes to stderr
	--version : display the version of the XML library used
`)
}

func _main() int {
	opts := cmdopts{}
	args, err := flags.ParseArgs(&opts, os.Args[1:])
	if err != nil {
		showUsage()
		return 1
	}

	if opts.Version {
		showVersion()
		return 0
	}

	options, err := parserOptions(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	}

	type namedInput struct {
		name string
		r    io.Reader
	}
	inputCh := make(chan namedInput)
	errCh := make(chan error, 1)
	switch {
	case len(args) > 0: // filename present
		go func() {
			defer close(inputCh)
			for _, f := range args {
				fh, err := os.Open(f)
				if err != nil {
					errCh <- err
					return
				}
				inputCh <- namedInput{name: f, r: fh}
			}
		}()
	case !cliutil.IsTty(os.Stdin.Fd()):
		go func() {
			defer close(inputCh)
			inputCh <- namedInput{name: "-", r: os.Stdin}
		}()
	default:
		showUsage()
		return 1
	}

	status := 0
	for in := range inputCh {
		buf, err := io.ReadAll(in.r)
		if c, ok := in.r.(io.Closer); ok && in.r != os.Stdin {
			c.Close()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			return 1
		}

		p := xmlpush.NewParser(options...)
		if opts.Events {
			p.SetHandler(newEventPrinter(os.Stdout))
		}
		err = feed(p, buf, opts.Chunk)
		p.Free()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", in.name, err)
			status = 1
		}
	}

	select {
	case err := <-errCh:
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	default:
	}

	return status
}

func parserOptions(opts cmdopts) ([]xmlpush.ParserOption, error) {
	cfg := &config{}
	if opts.Config != "" {
		var err error
		if cfg, err = loadConfig(opts.Config); err != nil {
			return nil, err
		}
	}
	if opts.Encoding != "" {
		cfg.encoding = opts.Encoding
	}
	if opts.ParamEntityParsing != "" {
		v, err := parseParamEntityParsing(opts.ParamEntityParsing)
		if err != nil {
			return nil, err
		}
		cfg.peParsing = v
	}

	var options []xmlpush.ParserOption
	if cfg.encoding != "" {
		options = append(options, xmlpush.WithEncoding(cfg.encoding))
	}
	options = append(options, xmlpush.WithParamEntityParsing(cfg.peParsing))
	if cfg.namespaces {
		options = append(options, xmlpush.WithNamespaces(cfg.nsSep))
	}
	switch {
	case opts.SkipExternal:
		options = append(options, xmlpush.WithExternalEntityRef(resolver.Suppress().Resolve))
	case len(cfg.candidates) > 0:
		options = append(options, xmlpush.WithExternalEntityRef(resolver.Select(cfg.candidates...).Resolve))
	}
	if opts.Charmap {
		options = append(options, xmlpush.WithUnknownEncodingHandler(encoding.Charmap()))
	}
	if opts.Trace {
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		options = append(options, xmlpush.WithTraceLogger(slog.New(h)))
	}
	return options, nil
}

// feed hands buf to p in chunks of the given size; zero or less feeds
// it in one call.
func feed(p *xmlpush.Parser, buf []byte, chunk int) error {
	if chunk > 0 {
		for len(buf) > chunk {
			if _, err := p.Feed(buf[:chunk], false); err != nil {
				return err
			}
			buf = buf[chunk:]
		}
	}
	_, err := p.Feed(buf, true)
	return err
}
