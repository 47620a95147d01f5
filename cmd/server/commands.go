package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mujeebabdul-99/sports-card-text-extraction/config"
	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/domain"
	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/usecase"
)

var (
	importFile string
	exportID   string
	exportOut  string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load card records from a JSON file into the configured store",
	Long: `Reads a single card object or an array of cards and stores each one.

Example:
  CARDEXPORT_STORE_TYPE=sqlite cardexport import --file cards.json`,
	RunE: runImport,
}

var exportCSVCmd = &cobra.Command{
	Use:   "export-csv",
	Short: "Export one stored card as CSV",
	RunE:  runExportCSV,
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "path to a card JSON file")
	_ = importCmd.MarkFlagRequired("file")

	exportCSVCmd.Flags().StringVar(&exportID, "card-id", "", "id of the card to export")
	exportCSVCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	_ = exportCSVCmd.MarkFlagRequired("card-id")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	raw, err := os.ReadFile(importFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", importFile, err)
	}
	cards, err := decodeCards(raw)
	if err != nil {
		return err
	}

	repo, closeStore, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := usecase.NewExportService(repo, nil, exportConfig(cfg), logger, nil)
	for _, card := range cards {
		if err := svc.SaveCard(cmd.Context(), card); err != nil {
			return fmt.Errorf("failed to store card %q: %w", card.ID, err)
		}
		logger.Info("imported card", zap.String("card_id", card.ID), zap.Int64("revision", card.Revision))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d card(s)\n", len(cards))
	return nil
}

func runExportCSV(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	repo, closeStore, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := usecase.NewExportService(repo, nil, exportConfig(cfg), logger, nil)
	export, err := svc.ExportCSV(cmd.Context(), &domain.ExportCSVRequest{CardID: exportID})
	if err != nil {
		return err
	}

	if exportOut == "" {
		_, err = cmd.OutOrStdout().Write(export.Content)
		return err
	}
	if err := os.WriteFile(exportOut, export.Content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOut, err)
	}
	logger.Info("wrote csv", zap.String("card_id", exportID), zap.String("path", exportOut))
	return nil
}

// decodeCards accepts either one card object or an array of cards
func decodeCards(raw []byte) ([]*domain.CardRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var cards []*domain.CardRecord
		if err := json.Unmarshal(trimmed, &cards); err != nil {
			return nil, fmt.Errorf("failed to decode cards: %w", err)
		}
		return cards, nil
	}

	var card domain.CardRecord
	if err := json.Unmarshal(trimmed, &card); err != nil {
		return nil, fmt.Errorf("failed to decode card: %w", err)
	}
	return []*domain.CardRecord{&card}, nil
}
