package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/avialab/booking-system/internal/model"
)

// TicketClient инкапсулирует HTTP-взаимодействие с сервисом билетов.
type TicketClient struct {
	client *resty.Client
}

// NewTicketClient создаёт клиента сервиса билетов по указанному адресу.
func NewTicketClient(baseURL string) *TicketClient {
	return &TicketClient{client: newRestyClient(baseURL)}
}

// GetTickets запрашивает список билетов пользователя. Второй результат
// равен false, если сервис не вернул данных для пользователя.
func (c *TicketClient) GetTickets(ctx context.Context, username string) ([]model.Ticket, bool, error) {
	var tickets []model.Ticket

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader(HeaderUserName, username).
		SetResult(&tickets).
		Get("/tickets")
	if err != nil {
		return nil, false, fmt.Errorf("get tickets: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound || resp.StatusCode() == http.StatusNoContent:
		return nil, false, nil
	case resp.IsError():
		return nil, false, fmt.Errorf("tickets service status %d", resp.StatusCode())
	}

	if tickets == nil {
		return nil, false, nil
	}

	return tickets, true, nil
}
