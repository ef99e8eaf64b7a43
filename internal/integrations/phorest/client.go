package phorest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client клиент для работы с календарём/CRM Phorest
// Выполняет только сетевые вызовы: решение о допустимости слота
// принимает движок валидации, а не этот клиент
type Client struct {
	baseURL    string
	tokenURL   string
	businessID string
	httpClient *http.Client
	tokens     *TokenSource
	log        Logger
}

// NewClient создает новый экземпляр клиента Phorest
func NewClient(baseURL, tokenURL, businessID string, tokens *TokenSource, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		tokenURL:   tokenURL,
		businessID: businessID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		tokens: tokens,
		log:    log,
	}
}

// doJSON выполняет авторизованный запрос с JSON телом и декодирует ответ в out
// Ответ 401 сбрасывает кешированный токен, чтобы следующий вызов его обновил
func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("%w: failed to marshal request body: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	token, err := c.tokens.Token(ctx, c.tokenURL)
	if err != nil {
		return 0, err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.tokens.Invalidate(c.tokenURL)
		return resp.StatusCode, ErrUnauthorized
	}

	if out != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
		}
		return resp.StatusCode, nil
	}

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(data))
	}

	return resp.StatusCode, nil
}

// CreateAppointment создает запись в календаре Phorest
func (c *Client) CreateAppointment(ctx context.Context, req *AppointmentRequest) (*Appointment, error) {
	path := fmt.Sprintf("/business/%s/appointments", c.businessID)

	var appointment Appointment
	status, err := c.doJSON(ctx, http.MethodPost, path, req, &appointment)
	if err != nil {
		if status >= 400 && status < 500 && status != http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: create appointment rejected with status %d", ErrInvalidResponse, status)
		}
		return nil, err
	}

	return &appointment, nil
}

// UpdateAppointment обновляет запись в календаре Phorest
func (c *Client) UpdateAppointment(ctx context.Context, appointmentID string, req *AppointmentRequest) (*Appointment, error) {
	path := fmt.Sprintf("/business/%s/appointments/%s", c.businessID, url.PathEscape(appointmentID))

	var appointment Appointment
	status, err := c.doJSON(ctx, http.MethodPut, path, req, &appointment)
	if err != nil {
		if status == http.StatusNotFound {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &appointment, nil
}

// CancelAppointment отменяет запись в календаре Phorest
func (c *Client) CancelAppointment(ctx context.Context, appointmentID string, reason string) error {
	path := fmt.Sprintf("/business/%s/appointments/%s/cancel", c.businessID, url.PathEscape(appointmentID))

	status, err := c.doJSON(ctx, http.MethodPost, path, &cancelRequest{Reason: reason}, nil)
	if err != nil {
		if status == http.StatusNotFound {
			return ErrAppointmentNotFound
		}
		return err
	}

	return nil
}

// SearchContact ищет контакт в CRM по номеру телефона
func (c *Client) SearchContact(ctx context.Context, phone string) (*Contact, error) {
	path := fmt.Sprintf("/business/%s/clients?phone=%s", c.businessID, url.QueryEscape(phone))

	var result contactSearchResponse
	_, err := c.doJSON(ctx, http.MethodGet, path, nil, &result)
	if err != nil {
		return nil, err
	}

	// Архивные контакты не считаются найденными
	for i := range result.Contacts {
		if !result.Contacts[i].Archived {
			return &result.Contacts[i], nil
		}
	}

	return nil, ErrContactNotFound
}

// CreateContact создает контакт в CRM
func (c *Client) CreateContact(ctx context.Context, req *ContactRequest) (*Contact, error) {
	path := fmt.Sprintf("/business/%s/clients", c.businessID)

	var contact Contact
	_, err := c.doJSON(ctx, http.MethodPost, path, req, &contact)
	if err != nil {
		return nil, err
	}

	return &contact, nil
}

// CreateAppointmentWithGracefulDegradation создает запись в календаре с graceful degradation
// При недоступности Phorest возвращает ErrServiceDegraded: локальная запись остаётся
// источником истины, синхронизация с календарём выполняется позже
func (c *Client) CreateAppointmentWithGracefulDegradation(ctx context.Context, req *AppointmentRequest) (*Appointment, error) {
	appointment, err := c.CreateAppointment(ctx, req)
	if err != nil {
		// Повышаем уровень логирования до ERROR, чтобы быстрее заметить проблему
		c.log.Error("Phorest unavailable, applying graceful degradation for staff=%s: %v", req.StaffRef, err)
		return nil, fmt.Errorf("%w: staff=%s, error=%v", ErrServiceDegraded, req.StaffRef, err)
	}

	c.log.Info("Successfully pushed appointment to Phorest, id=%s", appointment.ID)
	return appointment, nil
}
