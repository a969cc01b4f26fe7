package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/internal/config"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/internal/log"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/grammar"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/pipeline"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/playback"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/stt"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/tts"
	"github.com/Kenny-0n-the-weeknd/Text-To-AI-To-Mic/pkg/web"
)

func main() {
	// Command line flags
	configPath := flag.String("config", config.DefaultPath(), "Settings file path")
	apiKey := flag.String("api-key", "", "OpenAI API key (or set OPENAI_API_KEY env)")
	voice := flag.String("voice", "", "Voice id (default from settings)")
	engine := flag.String("engine", "espeak-ng", "Local synthesis engine command")
	recognizer := flag.String("recognizer", "", "Speech recognizer command for -record")
	grammarURL := flag.String("grammar", "", "LanguageTool server URL (empty disables copy-editing)")
	serve := flag.String("serve", "", "Serve the HTTP dashboard on this port")
	listDevices := flag.Bool("list-devices", false, "List playback devices and exit")
	record := flag.Int("record", 0, "Record N seconds from the mic, transcribe and speak")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := "info"
	if *debug {
		level = "debug"
	}
	log.Init(level)
	logger := log.L()

	if *listDevices {
		devices, err := playback.ListDevices()
		if err != nil {
			logger.Error("device enumeration failed", "error", err)
			os.Exit(1)
		}
		for _, d := range devices {
			marker := " "
			if d.IsDefault {
				marker = "*"
			}
			fmt.Printf("%s %2d  %s\n", marker, d.ID, d.Name)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("config load failed", "error", err)
		os.Exit(1)
	}

	key := *apiKey
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" && cfg.APIKey != nil {
		key = *cfg.APIKey
	}
	if key != "" {
		cfg.APIKey = &key
	}
	if *voice != "" {
		cfg.Voice = *voice
	}

	synth, backend, err := tts.New(
		tts.WithAPIKey(key),
		tts.WithEngineCommand(*engine),
	)
	if err != nil {
		logger.Error("no synthesis backend available", "error", err)
		os.Exit(1)
	}
	defer synth.Close()
	logger.Info("synthesis ready", "backend", backend.String(), "voice", cfg.Voice)

	store := config.NewStore(cfg, *configPath)
	fanout := playback.NewEngine(logger)
	worker := pipeline.NewWorker(synth, fanout, store)
	worker.Start()
	defer worker.Stop()

	var dictation *pipeline.Dictation
	if *recognizer != "" {
		transcriber, err := stt.NewExecTranscriber(*recognizer, logger)
		if err != nil {
			logger.Error("recognizer unavailable", "error", err)
			os.Exit(1)
		}
		var checker grammar.Checker
		if *grammarURL != "" {
			checker = grammar.New(grammar.WithBaseURL(*grammarURL))
		}
		dictation = pipeline.NewDictation(worker, stt.NewRecorder(logger), transcriber, checker)
	}

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutting down")
		cancel()
	}()

	if *record > 0 {
		if dictation == nil {
			logger.Error("-record needs -recognizer")
			os.Exit(1)
		}
		text, err := dictation.RecordAndSubmit(ctx, time.Duration(*record)*time.Second, cfg.Voice)
		if err != nil {
			logger.Error("dictation failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("heard: %s\n", text)
		waitForIdle(ctx, worker)
		return
	}

	if *serve != "" {
		server := web.NewServer(*serve, worker, dictation, store)
		worker.SetStatusFunc(server.PublishStatus)
		go func() {
			if err := server.Start(); err != nil {
				logger.Error("server stopped", "error", err)
				cancel()
			}
		}()
		<-ctx.Done()
		_ = server.Shutdown()
		return
	}

	// Interactive mode: one line of text per job, Ctrl-D to quit.
	fmt.Println("type text to speak, blank line to skip, Ctrl-D to quit")
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				waitForIdle(ctx, worker)
				return
			}
			if err := worker.Submit(line, cfg.Voice); err != nil {
				logger.Error("submit failed", "error", err)
			}
		}
	}
}

// waitForIdle blocks until queued work has drained. The short initial
// sleep lets a just-submitted job leave the Idle state first.
func waitForIdle(ctx context.Context, worker *pipeline.Worker) {
	time.Sleep(200 * time.Millisecond)
	for {
		if worker.Status().State == pipeline.StateIdle {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(50 * time.Millisecond):
		}
	}
}
