package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Client оборачивает официальный SDK Gemini: один запрос, один текстовый ответ.
// Повторов нет, каждый вызов выполняется ровно один раз.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient создаёт клиента Gemini с ключом apiKey и именем модели model.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Generate отправляет prompt одной репликой пользователя и возвращает текст ответа.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("Gemini generate failed: %w", err)
	}
	// Пустой текст не ошибка вызова: синтезатор сам уйдёт в fallback-разбор.
	return result.Text(), nil
}

// Close освобождает ресурсы клиента.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
