package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/mail"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/alto-labs/alto-triage/internal/config"
	"github.com/alto-labs/alto-triage/internal/core"
	"github.com/alto-labs/alto-triage/internal/factory"
	"github.com/alto-labs/alto-triage/internal/logging"
	"github.com/alto-labs/alto-triage/internal/utils"
)

var (
	// Extraction provider flags
	provider    = flag.String("provider", "gemini", "Extraction provider (gemini, openai, bedrock)")
	maxTokens   = flag.Int("max-tokens", 2048, "Maximum tokens for extraction response")
	temperature = flag.Float64("temperature", 0.2, "Temperature for extraction")
	topP        = flag.Float64("top-p", 0.9, "Top-p for extraction")
	maxBodySize = flag.Int("max-body-size", 8192, "Maximum email body size to send for extraction")

	// Gemini flags
	geminiAPIKey    = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName = flag.String("gemini-model", "gemini-2.5-flash", "Gemini model name")

	// OpenAI flags
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName = flag.String("openai-model", "gpt-4o-mini", "OpenAI model name")

	// Bedrock flags
	bedrockRegion  = flag.String("bedrock-region", "eu-west-3", "AWS region for Bedrock")
	bedrockModelID = flag.String("bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Input flags
	inputFile   = flag.String("file", "", "Input email file (use stdin if not specified)")
	profileFile = flag.String("profile", "", "Path to a family profile JSON file")
	hasAttach   = flag.Bool("attachments", false, "Treat the message as having attachments")
	analyze     = flag.Bool("analyze", false, "Run content extraction after scoring")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog     = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile  = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	var cfg *config.Config
	var err error

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration from file if specified
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		// Create config from command line flags
		cfg = createConfigFromFlags()
	}

	// Load the family profile if one was given
	var profile *core.FamilyProfile
	if *profileFile != "" {
		profile, err = loadProfile(*profileFile)
		if err != nil {
			logger.Fatal("Failed to load family profile", zap.Error(err), zap.String("file", *profileFile))
		}
		logger.Info("Loaded family profile",
			zap.Int("children", len(profile.Children)),
			zap.Int("trusted_senders", len(profile.TrustedSenders)),
			zap.Int("learned_keywords", len(profile.LearnedKeywords)))
	}

	// Read email from file or stdin
	var emailReader io.Reader
	if *inputFile != "" {
		file, err := os.Open(*inputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", *inputFile))
		}
		defer file.Close()
		emailReader = file
		logger.Info("Reading email from file", zap.String("file", *inputFile))
	} else {
		emailReader = os.Stdin
		logger.Info("Reading email from stdin")
	}

	// Parse email
	msg, err := mail.ReadMessage(bufio.NewReader(emailReader))
	if err != nil {
		logger.Fatal("Failed to parse email", zap.Error(err))
	}

	from := msg.Header.Get("From")
	subject := msg.Header.Get("Subject")

	bodyBytes, err := io.ReadAll(msg.Body)
	if err != nil {
		logger.Fatal("Failed to read email body", zap.Error(err))
	}
	body := string(bodyBytes)

	// Print email summary
	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("From: %s\n", from)
	fmt.Printf("Subject: %s\n", subject)
	fmt.Printf("Body length: %d bytes\n", len(body))
	fmt.Printf("\n")

	// Score the message
	startTime := time.Now()
	result := core.ScoreMessage(subject, body, from, *hasAttach, profile)

	fmt.Printf("=== Relevance ===\n")
	fmt.Printf("Score: %d\n", result.Score)
	for _, entry := range result.Breakdown {
		fmt.Printf("  %s\n", entry)
	}
	fmt.Printf("Processing time: %v\n", time.Since(startTime))

	if !*analyze {
		return
	}

	// Run content extraction
	extractorFactory := factory.NewExtractorFactory(cfg, logger)
	extractor, err := extractorFactory.CreateExtractor()
	if err != nil {
		logger.Fatal("Failed to create extractor", zap.Error(err))
	}

	textProcessor := utils.NewTextProcessor(logger)
	text := subject + "\n\n" + textProcessor.ProcessText(body, extractorFactory.MaxBodySize())

	startTime = time.Now()
	analysis, err := extractor.Analyze(context.Background(), text, profile)
	if err != nil {
		logger.Fatal("Failed to analyze email", zap.Error(err))
	}

	fmt.Printf("\n=== Analysis ===\n")
	fmt.Printf("Summary: %s\n", analysis.Summary)
	for _, event := range analysis.Events {
		fmt.Printf("Event: %s (%s %s) [%s]\n", event.Title, event.Date, event.Time, event.Category)
	}
	for _, task := range analysis.Tasks {
		fmt.Printf("Task: %s [%s] (deadline %s)\n", task.Title, task.Priority, task.Deadline)
	}
	if analysis.Learning != nil && len(analysis.Learning.NewKeywords) > 0 {
		fmt.Printf("Suggested keywords: %v\n", analysis.Learning.NewKeywords)
	}
	fmt.Printf("Processing time: %v\n", time.Since(startTime))

	// Close any resources that need closing
	if closer, ok := extractor.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close extractor", zap.Error(err))
		}
	}
}

// loadProfile reads a family profile from a JSON file
func loadProfile(path string) (*core.FamilyProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var profile core.FamilyProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("invalid profile JSON: %w", err)
	}
	return &profile, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	// Set extraction provider
	v.Set("llm.provider", *provider)

	// Set provider-specific configuration
	switch *provider {
	case "gemini":
		v.Set("gemini.api_key", *geminiAPIKey)
		v.Set("gemini.model_name", *geminiModelName)
		v.Set("gemini.max_tokens", *maxTokens)
		v.Set("gemini.temperature", *temperature)
		v.Set("gemini.top_p", *topP)
		v.Set("gemini.max_body_size", *maxBodySize)
	case "openai":
		v.Set("openai.api_key", *openaiAPIKey)
		v.Set("openai.model_name", *openaiModelName)
		v.Set("openai.max_tokens", *maxTokens)
		v.Set("openai.temperature", *temperature)
		v.Set("openai.top_p", *topP)
		v.Set("openai.max_body_size", *maxBodySize)
	case "bedrock":
		v.Set("bedrock.region", *bedrockRegion)
		v.Set("bedrock.model_id", *bedrockModelID)
		v.Set("bedrock.max_tokens", *maxTokens)
		v.Set("bedrock.temperature", *temperature)
		v.Set("bedrock.top_p", *topP)
		v.Set("bedrock.max_body_size", *maxBodySize)
	}

	return config.NewFromViper(v)
}
