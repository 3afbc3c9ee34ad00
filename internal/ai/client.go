package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

// coachPrompt is the persona for the /chat endpoint.
const coachPrompt = `You are Savvy, an AI investment coach specializing in Dollar Cost Averaging (DCA).
Your personality: confident, encouraging, emotionally intelligent - "that girl" energy who helps users stay disciplined.
Keep responses concise, actionable, and reassuring.`

// agentPrompt is the persona for the /agent/action endpoint.
const agentPrompt = `You are a Savvy DCA Agent on the Neo X blockchain. Your goal is to help users invest wisely.
Wallet context, when available, is included with the user's request. Be concise and professional.`

// demoReply is returned when no API key is configured, so the demo keeps
// working without credentials.
const demoReply = "DCA (Dollar Cost Averaging) is an investment strategy where you invest fixed amounts " +
	"at regular intervals, regardless of market conditions. This removes emotion from investing and helps " +
	"you build wealth consistently. During volatility, DCA is your best friend - it automatically buys more " +
	"when prices are low and less when prices are high. Stay disciplined, stay calm, and let the strategy " +
	"work for you. 💚"

// Client calls the Gemini generateContent REST endpoint directly.
type Client struct {
	apiKey string
	url    string
	http   *http.Client
}

func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if apiKey == "" {
		log.Println("WARNING: GEMINI_API_KEY not set. Chat runs in demo mode.")
	}
	return &Client{
		apiKey: apiKey,
		url:    fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent", model),
		http:   &http.Client{},
	}
}

// DemoMode reports whether replies are canned rather than model-generated.
func (c *Client) DemoMode() bool {
	return c.apiKey == ""
}

// Chat answers a user message in the Savvy coach persona.
func (c *Client) Chat(message string) (string, error) {
	if c.DemoMode() {
		return demoReply, nil
	}
	return c.generate(coachPrompt, message)
}

// AgentAction answers an agent prompt, optionally prefixed with wallet
// context gathered by the caller.
func (c *Client) AgentAction(userPrompt, walletContext string) (string, error) {
	if c.DemoMode() {
		return demoReply, nil
	}
	msg := userPrompt
	if walletContext != "" {
		msg = walletContext + "\n\n" + userPrompt
	}
	return c.generate(agentPrompt, msg)
}

func (c *Client) generate(systemInstruction, message string) (string, error) {
	payload := map[string]any{
		"system_instruction": map[string]any{
			"parts": map[string]any{
				"text": systemInstruction,
			},
		},
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"text": message},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", c.url+"?key="+c.apiKey, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("AI API error %d: %s", resp.StatusCode, string(b))
	}

	// candidates[0].content.parts[0].text
	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in AI response")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}
