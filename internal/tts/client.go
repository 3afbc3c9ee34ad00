package tts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Rachel, the default ElevenLabs demo voice.
const defaultVoiceID = "21m00Tcm4TlvDq8ikWAM"

const defaultModel = "eleven_multilingual_v2"

// Client is a thin wrapper over the ElevenLabs text-to-speech REST API.
type Client struct {
	apiKey string
	http   *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		http:   &http.Client{},
	}
}

// Configured reports whether an API key is available.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Speak synthesizes text and returns MP3 audio bytes.
func (c *Client) Speak(text string) ([]byte, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("TTS service not configured")
	}

	payload := map[string]any{
		"text":     text,
		"model_id": defaultModel,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("https://api.elevenlabs.io/v1/text-to-speech/%s", defaultVoiceID)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("TTS API error %d: %s", resp.StatusCode, string(b))
	}

	return io.ReadAll(resp.Body)
}
