package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/obratrack/obratrack/internal/model"
	"github.com/obratrack/obratrack/internal/store"
)

// seed populates an empty database with sample reference data so the
// TUI is usable immediately after install.
func seed(cmd *cobra.Command, s *store.SQLiteStore) error {
	ctx := cmd.Context()

	existing, err := s.GetSites(ctx, true)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return fmt.Errorf("database already has %d site(s); refusing to seed", len(existing))
	}

	sites := []model.Site{
		{Name: "Obra Central", Address: "Av. Paulista 1000, São Paulo", Active: true},
		{Name: "Obra Norte", Address: "Rua das Acácias 55, Manaus", Active: true},
	}
	for i := range sites {
		if err := s.CreateSite(ctx, &sites[i]); err != nil {
			return err
		}
	}

	responsibles := []model.Responsible{
		{Name: "Ana Souza", Email: "ana.souza@example.com", Role: "safety engineer"},
		{Name: "Carlos Lima", Email: "carlos.lima@example.com", Role: "site manager"},
	}
	for i := range responsibles {
		if err := s.CreateResponsible(ctx, &responsibles[i]); err != nil {
			return err
		}
	}

	templates := []model.ChecklistTemplate{
		{
			Name:     "NR-18 Andaimes",
			Category: "Segurança",
			Items: []model.TemplateItem{
				{Title: "Travas das rodas instaladas", Priority: model.PriorityCritical, Obligatory: true},
				{Title: "Guarda-corpo fixado", Priority: model.PriorityCritical, Obligatory: true, RequiresAttachment: true},
				{Title: "Sinalização de área visível", Priority: model.PriorityMedium},
				{Title: "Laudo de montagem arquivado", Priority: model.PriorityHigh, Obligatory: true, RequiresAttachment: true},
			},
		},
		{
			Name:     "Recebimento de concreto",
			Category: "Qualidade",
			Items: []model.TemplateItem{
				{Title: "Nota fiscal conferida", Priority: model.PriorityHigh, Obligatory: true},
				{Title: "Slump test dentro da faixa", Priority: model.PriorityCritical, Obligatory: true, RequiresAttachment: true},
				{Title: "Corpos de prova moldados", Priority: model.PriorityHigh},
			},
		},
	}
	for i := range templates {
		if err := s.CreateTemplate(ctx, &templates[i]); err != nil {
			return err
		}
	}

	fmt.Printf("seeded %d sites, %d responsibles, %d templates\n",
		len(sites), len(responsibles), len(templates))
	return nil
}
