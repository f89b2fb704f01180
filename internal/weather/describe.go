package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rod-jemeel/WeatherWizard/internal/common"
)

const (
	meteorologistRole = "You are a helpful meteorologist providing weather insights."

	genericDescription = "Weather information is currently available. Please check the displayed data for details."

	promptTemplate = `As a meteorologist, provide a helpful, informative, and conversational description of the current weather in %s, %s.

Current conditions:
- Temperature: %s°C (feels like %s°C)
- Weather: %s (%s)
- Humidity: %s%%
- Wind Speed: %s m/s

Include:
1. A brief summary of the current conditions
2. How it feels outside (hot, cold, pleasant, etc.)
3. Any relevant advice based on the weather (e.g., umbrella needed, sunscreen recommended)
4. A brief comment on how this weather might affect outdoor activities

Keep your response concise (3-4 sentences) and friendly. Do not include any data beyond what's provided.`
)

var (
	errNoGenerator     = errors.New("text generator not configured")
	errEmptyCompletion = errors.New("text generator returned an empty completion")
)

// Composer turns current conditions into a short natural-language summary.
type Composer struct {
	generator TextGenerator
	logger    *zap.Logger
}

// NewComposer creates a Composer. A nil generator makes every call use the
// template fallback.
func NewComposer(generator TextGenerator, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{
		generator: generator,
		logger:    logger,
	}
}

// Describe always returns a description. Generation failures of any kind are
// logged and answered with FallbackDescription.
func (c *Composer) Describe(ctx context.Context, cur CurrentConditions) string {
	text, err := c.generate(ctx, cur)
	if err == nil {
		return text
	}

	c.logger.Warn("ai description failed; using fallback",
		zap.String("location", cur.Location.Name),
		zap.Error(err))
	return FallbackDescription(cur)
}

func (c *Composer) generate(ctx context.Context, cur CurrentConditions) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("text generator panicked: %v", r)
		}
	}()

	if c.generator == nil {
		return "", errNoGenerator
	}

	prompt, err := BuildPrompt(cur)
	if err != nil {
		return "", err
	}

	out, err := c.generator.Generate(ctx, meteorologistRole, prompt)
	if err != nil {
		return "", err
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", errEmptyCompletion
	}
	return out, nil
}

// BuildPrompt renders the meteorologist prompt. It fails when any value the
// prompt embeds is missing.
func BuildPrompt(cur CurrentConditions) (string, error) {
	obs := cur.Current
	required := []struct {
		name    string
		present bool
	}{
		{"temp", obs.Temp != nil},
		{"feels_like", obs.FeelsLike != nil},
		{"humidity", obs.Humidity != nil},
		{"wind_speed", obs.WindSpeed != nil},
		{"weather.main", obs.Weather.Main != nil},
		{"weather.description", obs.Weather.Description != nil},
	}

	var missing []string
	for _, f := range required {
		if !f.present {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("missing fields for prompt: %s", strings.Join(missing, ", "))
	}

	return fmt.Sprintf(promptTemplate,
		cur.Location.Name, cur.Location.Country,
		common.FormatNumber(*obs.Temp), common.FormatNumber(*obs.FeelsLike),
		*obs.Weather.Main, *obs.Weather.Description,
		common.FormatNumber(*obs.Humidity),
		common.FormatNumber(*obs.WindSpeed),
	), nil
}

// FallbackDescription composes a deterministic summary from fixed
// temperature brackets and at most one condition clause.
func FallbackDescription(cur CurrentConditions) string {
	obs := cur.Current
	if obs.Temp == nil || obs.Weather.Main == nil || obs.Weather.Description == nil {
		return genericDescription
	}
	temp := *obs.Temp

	var b strings.Builder
	fmt.Fprintf(&b, "Currently in %s, %s, it's %s°C with %s.",
		cur.Location.Name, cur.Location.Country, common.FormatNumber(temp), *obs.Weather.Description)

	switch {
	case temp < 5:
		b.WriteString(" It's very cold, so bundle up with warm layers if you're heading outside.")
	case temp < 15:
		b.WriteString(" It's cool, so a jacket would be recommended for outdoor activities.")
	case temp < 25:
		b.WriteString(" The temperature is mild, good for most outdoor activities.")
	default:
		b.WriteString(" It's warm, ideal for outdoor activities but remember to stay hydrated.")
	}

	main := *obs.Weather.Main
	switch {
	case common.HasAnyFold(main, "rain"):
		b.WriteString(" Don't forget your umbrella!")
	case common.HasAnyFold(main, "snow"):
		b.WriteString(" Be careful of slippery conditions if you're going out.")
	case strings.EqualFold(main, "clear") && temp > 20:
		b.WriteString(" Sunscreen would be a good idea if you're spending time outside.")
	}

	return b.String()
}
