// Command morph converts dynamic values between wire formats.
//
//	morph convert --from json --to yaml < in.json > out.yaml
//	morph render --from msgpack --in payload.bin
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/zoobzio/morph"
	"github.com/zoobzio/morph/bson"
	"github.com/zoobzio/morph/json"
	"github.com/zoobzio/morph/msgpack"
	"github.com/zoobzio/morph/value"
	"github.com/zoobzio/morph/xml"
	"github.com/zoobzio/morph/yaml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ConvertCmd struct {
	From string `arg:"--from,required" help:"input format"`
	To   string `arg:"--to,required" help:"output format"`
	In   string `arg:"--in" help:"input file, stdin when empty"`
	Out  string `arg:"--out" help:"output file, stdout when empty"`
}

type RenderCmd struct {
	From string `arg:"--from,required" help:"input format"`
	In   string `arg:"--in" help:"input file, stdin when empty"`
}

type Args struct {
	Convert *ConvertCmd `arg:"subcommand:convert" help:"re-encode a payload in another format"`
	Render  *RenderCmd  `arg:"subcommand:render" help:"print the debug rendering of a payload"`
	Dev     bool        `arg:"--dev,env:MORPH_DEV" help:"development logging"`
}

func (Args) Description() string {
	return "morph converts dynamic values between " + strings.Join(formatNames(), ", ") + "\n"
}

var formats = map[string]func() morph.Codec{
	"json":    json.New,
	"yaml":    yaml.New,
	"msgpack": msgpack.New,
	"bson":    bson.New,
	"xml":     xml.New,
}

func formatNames() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func codecFor(name string) (morph.Codec, error) {
	newCodec, ok := formats[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown format %q, want one of %s", name, strings.Join(formatNames(), ", "))
	}
	return newCodec(), nil
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	return config.Build(zap.AddCaller())
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func decodeInput(from, path string, stdin io.Reader, logger *zap.Logger) (value.Value, error) {
	codec, err := codecFor(from)
	if err != nil {
		return nil, err
	}
	data, err := readInput(path, stdin)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	v, err := codec.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	logger.Debug("decoded input",
		zap.String("format", from),
		zap.Int("size", len(data)),
		zap.Stringer("kind", v.Kind()))
	return v, nil
}

func convert(cmd *ConvertCmd, stdin io.Reader, stdout io.Writer, logger *zap.Logger) error {
	to, err := codecFor(cmd.To)
	if err != nil {
		return err
	}
	v, err := decodeInput(cmd.From, cmd.In, stdin, logger)
	if err != nil {
		return err
	}
	data, err := to.Marshal(v)
	if err != nil {
		return err
	}
	if cmd.Out != "" {
		if err := os.WriteFile(cmd.Out, data, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	} else if _, err := io.Copy(stdout, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("converted",
		zap.String("from", cmd.From),
		zap.String("to", cmd.To),
		zap.String("content_type", to.ContentType()),
		zap.Int("size", len(data)))
	return nil
}

func render(cmd *RenderCmd, stdin io.Reader, stdout io.Writer, logger *zap.Logger) error {
	v, err := decodeInput(cmd.From, cmd.In, stdin, logger)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, value.Render(v))
	return err
}

func run(args Args, stdin io.Reader, stdout io.Writer, logger *zap.Logger) error {
	switch {
	case args.Convert != nil:
		return convert(args.Convert, stdin, stdout, logger)
	case args.Render != nil:
		return render(args.Render, stdin, stdout, logger)
	default:
		return fmt.Errorf("missing subcommand")
	}
}

func main() {
	var args Args
	p := arg.MustParse(&args)
	if p.Subcommand() == nil {
		p.Fail("missing subcommand")
	}

	logger, err := newLogger(args.Dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to construct logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(args, os.Stdin, os.Stdout, logger); err != nil {
		logger.Error("morph failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
