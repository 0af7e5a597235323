// Package main provides a CLI tool for seeding the configured storage with
// sample quotations and invoices.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"bizconsole/internal/config"
	"bizconsole/internal/core/types"
	"bizconsole/internal/domain/documents"
	"bizconsole/internal/infrastructure/storage"
	"bizconsole/pkg/logger"
)

type sampleLine struct {
	service  string
	quantity any
	rate     any
}

type sample struct {
	customer string
	project  string
	ageDays  int
	termDays int
	tax      any
	discount any
	status   documents.Status
	lines    []sampleLine
}

var samples = []sample{
	{
		customer: "Acme Corporation", project: "Website redesign",
		ageDays: 45, termDays: 30, tax: 18, discount: 0, status: documents.StatusSent,
		lines: []sampleLine{{"UX audit", 1, 1200}, {"Design", 40, 55}},
	},
	{
		customer: "Globex", project: "Mobile app",
		ageDays: 10, termDays: 15, tax: 18, discount: 5, status: documents.StatusDraft,
		lines: []sampleLine{{"Development", 120, 60}, {"QA", 30, "40.50"}},
	},
	{
		customer: "Initech", project: "Support retainer",
		ageDays: 95, termDays: 30, tax: 0, discount: 10, status: documents.StatusPaid,
		lines: []sampleLine{{"Support hours", 20, 75}},
	},
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	force := flag.Bool("force", false, "seed even when collections are not empty")
	flag.Parse()

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer backend.Close(ctx)

	quotations, invoices, err := backend.OpenStores(ctx)
	if err != nil {
		log.Fatalw("failed to load documents", "error", err)
	}

	if !*force && (len(quotations.List(ctx)) > 0 || len(invoices.List(ctx)) > 0) {
		log.Info("collections already contain documents, skipping (use -force to seed anyway)")
		return
	}

	if err := seed(ctx, quotations, invoices, types.Today()); err != nil {
		log.Fatalw("failed to seed documents", "error", err)
	}

	log.Info("seeding completed successfully")
}

func seed(ctx context.Context, quotations, invoices *documents.Store, today types.Date) error {
	for _, s := range samples {
		for _, store := range []*documents.Store{quotations, invoices} {
			doc := build(store.Kind(), s, today)
			if store.Kind() == documents.KindQuotation && s.status == documents.StatusPaid {
				doc.Status = documents.StatusAccepted
			}

			created, err := store.Create(ctx, doc)
			if err != nil {
				return fmt.Errorf("seed %s for %s: %w", store.Kind(), s.customer, err)
			}
			logger.Info(ctx, "seeded document",
				"kind", created.Kind,
				"number", created.Number,
				"total", types.Format2(created.Total))
		}
	}
	return nil
}

func build(kind documents.Kind, s sample, today types.Date) *documents.Document {
	doc := documents.NewDraft(kind)
	doc.Customer = s.customer
	doc.Project = s.project
	doc.IssueDate = types.DateOf(today.AddDate(0, 0, -s.ageDays))
	doc.DueOrValidDate = types.DateOf(doc.IssueDate.AddDate(0, 0, s.termDays))
	doc.Status = s.status

	items := make([]documents.LineItem, 0, len(s.lines))
	for _, l := range s.lines {
		items = append(items, documents.NewLineItem(l.service, l.quantity, l.rate))
	}
	doc.SetItems(items)
	doc.SetTaxPercent(s.tax)
	doc.SetDiscountPercent(s.discount)
	return doc
}
