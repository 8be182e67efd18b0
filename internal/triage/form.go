package triage

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ylchen07/jira-estimate/internal/schema"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Faint(true)
)

// FormAsker prompts on the terminal with huh select forms.
type FormAsker struct {
	// Accessible switches huh to plain line prompts for screen readers and dumb terminals.
	Accessible bool
}

// AskSize offers the story point scale plus clear and cancel.
func (a FormAsker) AskSize(ctx context.Context, p Prompt) (schema.SizeChoice, error) {
	choice := schema.SizeClear
	if p.Row.Size.Valid {
		choice = schema.SizeChoice(p.Row.Size.Value)
	}

	options := make([]huh.Option[schema.SizeChoice], 0, len(schema.DefaultSizes())+2)
	for _, size := range schema.DefaultSizes() {
		options = append(options, huh.NewOption(size.Label(), schema.SizeChoice(size)))
	}
	options = append(options,
		huh.NewOption(mutedStyle.Render("clear (skip issue)"), schema.SizeClear),
		huh.NewOption(mutedStyle.Render("cancel"), schema.SizeCancel),
	)

	field := huh.NewSelect[schema.SizeChoice]().
		Title(title(p, "Story points")).
		Description(description(p)).
		Options(options...).
		Value(&choice)

	if err := a.run(ctx, field); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return schema.SizeCancel, nil
		}
		return 0, err
	}
	return choice, nil
}

// AskPriority offers the priorities of the translation table plus clear and cancel.
func (a FormAsker) AskPriority(ctx context.Context, p Prompt) (schema.PriorityChoice, error) {
	choice := schema.PriorityClear
	if p.Row.Priority.Valid {
		choice = schema.ChoiceOf(p.Row.Priority.Value)
	}

	priorities := p.Table.Priority
	if len(priorities) == 0 {
		priorities = schema.DefaultPriorities()
	}

	options := make([]huh.Option[schema.PriorityChoice], 0, len(priorities)+2)
	for _, priority := range priorities {
		options = append(options, huh.NewOption(priority.Label(), schema.ChoiceOf(priority)))
	}
	options = append(options,
		huh.NewOption(mutedStyle.Render("clear (skip issue)"), schema.PriorityClear),
		huh.NewOption(mutedStyle.Render("cancel"), schema.PriorityCancel),
	)

	field := huh.NewSelect[schema.PriorityChoice]().
		Title(title(p, "Priority")).
		Description(description(p)).
		Options(options...).
		Value(&choice)

	if err := a.run(ctx, field); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return schema.PriorityCancel, nil
		}
		return "", err
	}
	return choice, nil
}

func (a FormAsker) run(ctx context.Context, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).WithAccessible(a.Accessible)
	if err := form.RunWithContext(ctx); err != nil {
		return fmt.Errorf("triage: prompt: %w", err)
	}
	return nil
}

func title(p Prompt, question string) string {
	return fmt.Sprintf("%s %s %s", p.Row.TypeLabel(), titleStyle.Render(p.Row.Key), question)
}

func description(p Prompt) string {
	return fmt.Sprintf("%s\n%s  %s", p.Row.Summary, p.Row.StatusLabel(), mutedStyle.Render(p.URL))
}
