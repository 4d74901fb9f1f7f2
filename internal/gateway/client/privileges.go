package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/avialab/booking-system/internal/model"
)

// PrivilegeClient инкапсулирует HTTP-взаимодействие с сервисом привилегий.
type PrivilegeClient struct {
	client *resty.Client
}

// NewPrivilegeClient создаёт клиента сервиса привилегий по указанному адресу.
func NewPrivilegeClient(baseURL string) *PrivilegeClient {
	return &PrivilegeClient{client: newRestyClient(baseURL)}
}

// GetPrivilegeForUser запрашивает краткую информацию о привилегиях
// пользователя. Второй результат равен false, если счёт не найден.
func (c *PrivilegeClient) GetPrivilegeForUser(ctx context.Context, username string) (*model.PrivilegeShortInfo, bool, error) {
	var info model.PrivilegeShortInfo

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader(HeaderUserName, username).
		SetResult(&info).
		Get("/privilege")
	if err != nil {
		return nil, false, fmt.Errorf("get privilege: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound || resp.StatusCode() == http.StatusNoContent:
		return nil, false, nil
	case resp.IsError():
		return nil, false, fmt.Errorf("privileges service status %d", resp.StatusCode())
	}

	if len(resp.Body()) == 0 {
		return nil, false, nil
	}

	return &info, true, nil
}
