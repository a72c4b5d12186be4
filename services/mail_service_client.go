// dashboard-analytics-system/services/mail_service_client.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"dashboard-analytics-system/utils"
)

// MailServiceClient talks to the platform's mail service, which owns
// templates and actual delivery. This service only hands it a recipient and
// the live opportunity count.
type MailServiceClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

type sendMailResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func NewMailServiceClient(baseURL, token string) *MailServiceClient {
	return &MailServiceClient{
		BaseURL: baseURL,
		Token:   token,
		Client:  utils.HTTPClient,
	}
}

// SendEncouragement calls /mail/encouragement on the mail service.
func (c *MailServiceClient) SendEncouragement(email, name string, openOpportunities int64) error {
	url := fmt.Sprintf("%s/mail/encouragement", c.BaseURL)

	reqBody := map[string]interface{}{
		"email":              email,
		"name":               name,
		"open_opportunities": openOpportunities,
	}
	jsonData, _ := json.Marshal(reqBody)

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Printf("MailService /mail/encouragement returned %d: %s", resp.StatusCode, string(body))
		return fmt.Errorf("mail service returned %d", resp.StatusCode)
	}

	var out sendMailResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return err
	}
	if !out.OK {
		return fmt.Errorf("mail service rejected send: %s", out.Error)
	}

	return nil
}
