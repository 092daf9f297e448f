// internals/helpers/ai/client.go
package ai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"markme_backend/internals/configs"
)

// Client memanggil backend face-recognition eksternal.
// Inference batch bisa lama, timeout default sengaja longgar.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClientFromEnv() *Client {
	return &Client{
		BaseURL: strings.TrimRight(configs.AIBaseURL, "/"),
		HTTP:    &http.Client{Timeout: 180 * time.Second},
	}
}

type recognizeRequest struct {
	ClassID   string   `json:"classId"`
	ImageURLs []string `json:"imageUrls"`
}

type recognizeResponse struct {
	PresentStudentIDs []string `json:"presentStudentIds"`
}

type embeddingRequest struct {
	StudentID string `json:"studentId"`
	ClassID   string `json:"classId"`
	ImageURL  string `json:"imageUrl"`
}

// Recognize mengirim URL foto kelas dan mengembalikan id siswa yang terdeteksi hadir.
func (c *Client) Recognize(ctx context.Context, classID string, imageURLs []string) ([]string, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("AI_BASE_URL belum diset")
	}

	payload, err := sonic.Marshal(recognizeRequest{ClassID: classID, ImageURLs: imageURLs})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/recognize", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("AI service unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("AI service status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var out recognizeResponse
	if err := sonic.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("AI response invalid: %w", err)
	}
	if out.PresentStudentIDs == nil {
		out.PresentStudentIDs = []string{}
	}
	return out.PresentStudentIDs, nil
}

// GenerateEmbedding meminta backend AI membuat embedding wajah dari satu foto profil.
func (c *Client) GenerateEmbedding(ctx context.Context, studentID, classID, imageURL string) error {
	if c.BaseURL == "" {
		return fmt.Errorf("AI_BASE_URL belum diset")
	}

	payload, err := sonic.Marshal(embeddingRequest{StudentID: studentID, ClassID: classID, ImageURL: imageURL})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/generate-embedding", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("AI service unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("AI service status %d", resp.StatusCode)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
