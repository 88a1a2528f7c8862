package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"carbcheck/internal/leads"
)

const defaultModel = "gemini-2.5-flash"

const chatSystemPrompt = `You are the support assistant for Mobile Carb Check, a mobile diesel emissions testing service operating across California. You help truck owners and fleet managers understand the CARB Clean Truck Check program: registration, testing deadlines, OBD and smoke opacity testing, and DMV registration holds. Keep answers short and practical. If asked to schedule a test, direct the user to the tester locator in this app. Never invent regulatory deadlines; if unsure, say so and point to cleantruckcheck.arb.ca.gov.`

const extractVINPrompt = `Read the VIN from this image. It may appear on a door jamb sticker, dashboard plate, or registration card. Reply with the VIN characters only, no other text. If no VIN is visible, reply NONE.`

const scoutLeadPrompt = `This photo shows a commercial truck, company door logo, or fleet yard. Extract what you can and draft a short, friendly sales email offering mobile CARB Clean Truck Check testing at their yard. Return JSON with fields: companyName, industry, location, phone, dot, emailDraft. Use empty strings for anything not visible.`

// Gemini implements Service on Google's Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates the assistant client. An empty API key is a
// configuration problem, not a transport one, so it fails fast.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrUnavailable
	}
	if model == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Chat(ctx context.Context, history []Message, prompt string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		role := genai.Role(genai.RoleUser)
		if m.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(chatSystemPrompt, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("chat failed: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

func (g *Gemini) ExtractVIN(ctx context.Context, image []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(extractVINPrompt),
		}, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("vin extraction failed: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" || text == "NONE" {
		return "", fmt.Errorf("no vin found in image")
	}
	return text, nil
}

func (g *Gemini) ScoutLead(ctx context.Context, image []byte, mimeType string) (leads.Lead, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(scoutLeadPrompt),
		}, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return leads.Lead{}, fmt.Errorf("lead scouting failed: %w", err)
	}

	var lead leads.Lead
	if err := json.Unmarshal([]byte(resp.Text()), &lead); err != nil {
		return leads.Lead{}, fmt.Errorf("unparseable scout response: %w", err)
	}
	if lead.Company == "" {
		return leads.Lead{}, fmt.Errorf("no company identified in image")
	}
	return lead, nil
}
