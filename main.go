package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"parlor/internal/avatar"
	"parlor/internal/config"
	"parlor/internal/content"
	"parlor/internal/conversation"
	"parlor/internal/fixtures"
	"parlor/internal/models"
	"parlor/internal/roster"
	"parlor/internal/simulate"
	"parlor/internal/ui"
)

func run(ctx context.Context) error {
	seedFlag := flag.Int64("seed", 0, "Simulator random seed (overrides PARLOR_SEED; 0 means time-based)")
	datasetFlag := flag.String("dataset", "", "Path to a YAML dataset file (overrides PARLOR_DATASET)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *seedFlag != 0 {
		cfg.Seed = *seedFlag
	}
	if *datasetFlag != "" {
		cfg.DatasetPath = *datasetFlag
	}

	model, err := buildModel(cfg, time.Now())
	if err != nil {
		return err
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// buildModel assembles the full screen from configuration: dataset, roster,
// seeded transcript, and simulator.
func buildModel(cfg *config.Config, startTime time.Time) (ui.Model, error) {
	dataset, err := fixtures.Load(cfg.DatasetPath)
	if err != nil {
		return ui.Model{}, err
	}

	contacts := make([]models.Contact, len(dataset.Contacts))
	copy(contacts, dataset.Contacts)
	for i := range contacts {
		if contacts[i].AvatarURL == "" {
			contacts[i].AvatarURL = avatar.URL(contacts[i].Name)
		}
	}

	contactList, err := roster.New(dataset.SelfID, contacts)
	if err != nil {
		return ui.Model{}, err
	}

	conv := conversation.New(conversation.Config{
		SelfID:      dataset.SelfID,
		MaxMessages: cfg.MaxMessages,
	})
	for _, entry := range dataset.Transcript {
		conv.AppendAt(entry.SenderID, entry.Text, entry.Timestamp(startTime))
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = startTime.UnixNano()
	}

	sim := simulate.New(simulate.Config{
		TickPeriod:       cfg.TickPeriod,
		TypeProbability:  cfg.TypeProbability,
		ReplyProbability: cfg.ReplyProbability,
		StopDelayMin:     cfg.StopDelayMin,
		StopDelayMax:     cfg.StopDelayMax,
		Lines:            dataset.Lines,
	}, seed)

	return ui.NewModel(ui.Params{
		Roster:       contactList,
		Conversation: conv,
		Simulator:    sim,
		Renderer:     content.NewRenderer(content.DefaultStyle),
		Allowlist:    avatar.NewAllowlist(cfg.AvatarHosts),
	}), nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Application error: %v", err)
	}
}
