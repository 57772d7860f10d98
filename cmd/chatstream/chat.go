package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/emberlink/chatstream/conf"
	"github.com/emberlink/chatstream/internal/log"
	"github.com/emberlink/chatstream/llm"
	"github.com/emberlink/chatstream/llm/httpclient"
	"github.com/emberlink/chatstream/llm/pipeline"
	"github.com/emberlink/chatstream/llm/responses"
	"github.com/emberlink/chatstream/llm/simulator"
)

type chatOptions struct {
	prompt   string
	model    string
	simulate bool
}

func parseChatOptions(args []string) chatOptions {
	var opts chatOptions

	var words []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--simulate":
			opts.simulate = true
		case "--model", "-m":
			if i+1 < len(args) {
				opts.model = args[i+1]
				i++
			}
		default:
			words = append(words, args[i])
		}
	}

	opts.prompt = strings.Join(words, " ")

	return opts
}

func chat(config conf.Config, opts chatOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	baseURL := config.API.BaseURL
	apiKey := config.API.APIKey

	if opts.simulate {
		addr, shutdown, err := startSimulator(config.Simulator)
		if err != nil {
			return fmt.Errorf("failed to start simulator: %w", err)
		}

		defer shutdown()

		baseURL = "http://" + addr
		apiKey = "sk-simulated"
	}

	outbound, err := responses.NewOutboundTransformer(baseURL, apiKey)
	if err != nil {
		return err
	}

	executor := httpclient.NewHttpClient(
		httpclient.WithTimeout(time.Duration(config.API.TimeoutSeconds) * time.Second),
	)

	p := pipeline.NewFactory(executor).Pipeline(outbound)

	model := config.Chat.Model
	if opts.model != "" {
		model = opts.model
	}

	session := &responses.Session{}

	if opts.prompt != "" {
		return runTurn(ctx, p, session, config, model, opts.prompt, os.Stdout)
	}

	return repl(ctx, p, session, config, model)
}

// repl reads prompts from stdin until EOF or an exit command, threading
// every turn through the same session.
func repl(
	ctx context.Context,
	p *pipeline.Pipeline,
	session *responses.Session,
	config conf.Config,
	model string,
) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")

		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		prompt := strings.TrimSpace(scanner.Text())
		if prompt == "" {
			continue
		}

		if prompt == "exit" || prompt == "quit" {
			return nil
		}

		if err := runTurn(ctx, p, session, config, model, prompt, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func runTurn(
	ctx context.Context,
	p *pipeline.Pipeline,
	session *responses.Session,
	config conf.Config,
	model string,
	prompt string,
	out io.Writer,
) error {
	request := &llm.Request{
		Model:           model,
		Instructions:    config.Chat.Instructions,
		Temperature:     config.Chat.Temperature,
		MaxOutputTokens: config.Chat.MaxOutputTokens,
		Messages:        []llm.Message{llm.NewTextMessage(llm.RoleUser, prompt)},
	}

	stream, err := p.Stream(ctx, request, session)
	if err != nil {
		return err
	}

	defer stream.Close()

	paint := newRenderer(out)

	var text strings.Builder

	for stream.Next() {
		update := stream.Current()

		switch update.Kind {
		case responses.UpdateStarted:
			log.Debug(ctx, "response started", log.String("response_id", update.ResponseID))

		case responses.UpdateDelta:
			text.WriteString(update.Text)
			paint.Render(update.ResponseID, text.String(), true)

		case responses.UpdateSnapshot:
			text.Reset()
			text.WriteString(update.Text)
			paint.Render(update.ResponseID, text.String(), true)

		case responses.UpdateCompleted:
			paint.Done(update.ResponseID, update.Text)

		case responses.UpdateFailed:
			fmt.Fprintf(out, "\nerror: %s\n", update.Message)

		case responses.UpdateCancelled:
			fmt.Fprintln(out, "\ncancelled")
		}
	}

	return nil
}

// startSimulator serves a scripted Responses API endpoint on a loopback
// port, so chat --simulate works without network access or credentials.
func startSimulator(config conf.SimulatorConfig) (string, func(), error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, err
	}

	sim := simulator.New(
		simulator.WithScript(simulatedScript),
		simulator.WithChunkSize(config.ChunkSize),
		simulator.WithDelay(time.Duration(config.DelayMS)*time.Millisecond),
	)

	server := &http.Server{Handler: sim}

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error(context.Background(), "simulator serve error", log.Cause(err))
		}
	}()

	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}

	return listener.Addr().String(), shutdown, nil
}

// simulatedScript echoes the last user message back with a code fence, to
// exercise the full render path including streamed code.
func simulatedScript(request *responses.Request) simulator.Script {
	prompt := "(empty prompt)"

	for _, item := range request.Input {
		for _, part := range item.Content {
			if part.Text != "" {
				prompt = part.Text
			}
		}
	}

	return simulator.Script{
		Text: fmt.Sprintf(
			"You said: %s\n\nHere is an example:\n```go\nfmt.Println(%q)\n```\nDone.",
			prompt, prompt,
		),
	}
}
