package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/andreazorzetto/yh/highlight"
	"github.com/hokaccha/go-prettyjson"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"gopkg.in/yaml.v3"

	"github.com/emberlink/chatstream/conf"
	"github.com/emberlink/chatstream/internal/build"
	"github.com/emberlink/chatstream/internal/log"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "config":
			handleConfigCommand()
			return
		case "version", "--version", "-v":
			showVersion()
			return
		case "build-info":
			showBuildInfo()
			return
		case "help", "--help", "-h":
			showHelp()
			return
		case "chat":
			runChat(os.Args[2:])
			return
		}
	}

	runChat(os.Args[1:])
}

type logger struct{}

func (l *logger) LogEvent(event fxevent.Event) {
	log.Debug(context.Background(), "fx event", log.Any("event", event))
}

func runChat(args []string) {
	opts := parseChatOptions(args)

	app := fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return &logger{}
		}),
		fx.Provide(conf.Load),
		fx.Invoke(func(config conf.Config) error {
			if err := log.Setup(config.Log); err != nil {
				return fmt.Errorf("failed to set up logging: %w", err)
			}

			return chat(config, opts)
		}),
	)

	if err := app.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "chatstream: %v\n", err)
		os.Exit(1)
	}
}

func handleConfigCommand() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: chatstream config <preview|validate|get>")
		os.Exit(1)
	}

	switch os.Args[2] {
	case "preview":
		configPreview()
	case "validate":
		configValidate()
	case "get":
		configGet()
	default:
		fmt.Println("Usage: chatstream config <preview|validate|get>")
		os.Exit(1)
	}
}

func configPreview() {
	format := "yml"

	for i := 3; i < len(os.Args); i++ {
		if os.Args[i] == "--format" || os.Args[i] == "-f" {
			if i+1 < len(os.Args) {
				format = os.Args[i+1]
			}
		}
	}

	config, err := conf.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var output string

	switch format {
	case "json":
		b, err := prettyjson.Marshal(config)
		if err != nil {
			fmt.Printf("Failed to preview config: %v\n", err)
			os.Exit(1)
		}

		output = string(b)
	case "yml", "yaml":
		b, err := yaml.Marshal(config)
		if err != nil {
			fmt.Printf("Failed to preview config: %v\n", err)
			os.Exit(1)
		}

		output, err = highlight.Highlight(bytes.NewBuffer(b))
		if err != nil {
			fmt.Printf("Failed to preview config: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Printf("Unsupported format: %s\n", format)
		os.Exit(1)
	}

	fmt.Println(output)
}

func configValidate() {
	config, err := conf.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	problems := config.Validate()

	if len(problems) == 0 {
		fmt.Println("Configuration is valid!")
		return
	}

	fmt.Println("Configuration validation failed:")

	for _, problem := range problems {
		fmt.Printf("  - %s\n", problem)
	}

	os.Exit(1)
}

func configGet() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: chatstream config get <key>")
		fmt.Println("")
		fmt.Println("Available keys:")
		fmt.Println("  api.base_url           Responses API base URL")
		fmt.Println("  api.timeout_seconds    Request timeout in seconds")
		fmt.Println("  chat.model             Default model")
		fmt.Println("  log.level              Log level")
		os.Exit(1)
	}

	key := os.Args[3]

	config, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var value interface{}

	switch key {
	case "api.base_url":
		value = config.API.BaseURL
	case "api.timeout_seconds":
		value = config.API.TimeoutSeconds
	case "chat.model":
		value = config.Chat.Model
	case "chat.instructions":
		value = config.Chat.Instructions
	case "log.level":
		value = config.Log.Level
	case "log.format":
		value = config.Log.Format
	default:
		fmt.Fprintf(os.Stderr, "Unknown config key: %s\n", key)
		os.Exit(1)
	}

	fmt.Println(value)
}

func showHelp() {
	fmt.Println("chatstream - streaming chat client for the Responses API")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  chatstream [chat] [prompt...]   Stream a prompt (interactive when omitted)")
	fmt.Println("  chatstream config preview       Preview configuration")
	fmt.Println("  chatstream config validate      Validate configuration")
	fmt.Println("  chatstream config get <key>     Get a specific config value")
	fmt.Println("  chatstream version              Show version")
	fmt.Println("  chatstream help                 Show this help message")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -m, --model MODEL     Override the configured model")
	fmt.Println("      --simulate        Chat against a local scripted simulator")
	fmt.Println("  -f, --format FORMAT   Output format for config preview (yml, json)")
}

func showVersion() {
	fmt.Println(build.Version)
}

func showBuildInfo() {
	fmt.Println(build.GetBuildInfo())
}
