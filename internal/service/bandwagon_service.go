package service

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/WooodHead/blog-be-next/internal/config"
)

// ServiceInfo mirrors the hosting provider's getServiceInfo response.
type ServiceInfo struct {
	VMType                string   `json:"vm_type"`
	Hostname              string   `json:"hostname"`
	Plan                  string   `json:"plan"`
	OS                    string   `json:"os"`
	Email                 string   `json:"email"`
	DataCounter           int64    `json:"data_counter"`
	PlanMonthlyData       int64    `json:"plan_monthly_data"`
	MonthlyDataMultiplier int64    `json:"monthly_data_multiplier"`
	DataNextReset         int64    `json:"data_next_reset"`
	IPAddresses           []string `json:"ip_addresses"`
	NodeLocation          string   `json:"node_location"`
	Error                 int      `json:"error"`
}

// UsagePoint is one entry of the provider's raw usage stats series.
type UsagePoint struct {
	Timestamp       int64 `json:"timestamp"`
	NetworkInBytes  int64 `json:"network_in_bytes"`
	NetworkOutBytes int64 `json:"network_out_bytes"`
	DiskReadBytes   int64 `json:"disk_read_bytes"`
	DiskWriteBytes  int64 `json:"disk_write_bytes"`
	CPUUsage        int64 `json:"cpu_usage"`
}

type usageStatsResponse struct {
	Data  []UsagePoint `json:"data"`
	Error int          `json:"error"`
}

// BandwagonService is a thin authenticated proxy to the VPS provider's
// usage API; credentials stay server-side.
type BandwagonService struct {
	client *resty.Client
	cfg    config.BandwagonConfig
	log    zerolog.Logger
}

func NewBandwagonService(cfg config.BandwagonConfig, log zerolog.Logger) *BandwagonService {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetQueryParams(map[string]string{
			"veid":    cfg.ServerID,
			"api_key": cfg.SecretKey,
		})

	return &BandwagonService{
		client: client,
		cfg:    cfg,
		log:    log,
	}
}

func (s *BandwagonService) GetServiceInfo(ctx context.Context) (ServiceInfo, error) {
	var info ServiceInfo
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&info).
		Get("/getServiceInfo")
	if err != nil {
		return ServiceInfo{}, fmt.Errorf("bandwagon service info: %w", err)
	}
	if resp.IsError() {
		return ServiceInfo{}, fmt.Errorf("bandwagon service info: status %d", resp.StatusCode())
	}
	if info.Error != 0 {
		return ServiceInfo{}, fmt.Errorf("bandwagon service info: provider error %d", info.Error)
	}
	return info, nil
}

func (s *BandwagonService) GetUsageStats(ctx context.Context) ([]UsagePoint, error) {
	var stats usageStatsResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&stats).
		Get("/getRawUsageStats")
	if err != nil {
		return nil, fmt.Errorf("bandwagon usage stats: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("bandwagon usage stats: status %d", resp.StatusCode())
	}
	if stats.Error != 0 {
		return nil, fmt.Errorf("bandwagon usage stats: provider error %d", stats.Error)
	}
	return stats.Data, nil
}
