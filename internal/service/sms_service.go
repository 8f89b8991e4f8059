package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/WooodHead/blog-be-next/internal/config"
)

var (
	ErrInvalidPhoneNumber    = errors.New("invalid phone number")
	ErrVerificationFailed    = errors.New("sms verification failed")
	ErrVerificationThrottled = errors.New("sms verification requested too often")
)

var phoneNumberRegex = regexp.MustCompile(`^1\d{10}$`)

const smsResendInterval = time.Minute

type SMSService struct {
	cache  *redis.Client
	client *resty.Client
	cfg    config.SMSConfig
	log    zerolog.Logger
}

func NewSMSService(cache *redis.Client, cfg config.SMSConfig, log zerolog.Logger) *SMSService {
	client := resty.New().
		SetBaseURL(cfg.GatewayURL).
		SetTimeout(15 * time.Second)

	return &SMSService{
		cache:  cache,
		client: client,
		cfg:    cfg,
		log:    log,
	}
}

type SendSMSResult struct {
	PhoneNumber      string `json:"phoneNumber"`
	VerificationCode string `json:"verificationCode"`
}

// Send generates a 6-digit verification code, stores it in Redis under
// the phone number with the configured TTL, and dispatches it through
// the SMS gateway. A resend inside the cooldown window is rejected
// before a new code is generated.
func (s *SMSService) Send(ctx context.Context, phoneNumber string) (SendSMSResult, error) {
	if !phoneNumberRegex.MatchString(phoneNumber) {
		return SendSMSResult{}, ErrInvalidPhoneNumber
	}

	ok, err := s.cache.SetNX(ctx, smsCooldownKey(phoneNumber), 1, smsResendInterval).Result()
	if err != nil {
		return SendSMSResult{}, fmt.Errorf("sms cooldown: %w", err)
	}
	if !ok {
		return SendSMSResult{}, ErrVerificationThrottled
	}

	code, err := generateVerificationCode()
	if err != nil {
		return SendSMSResult{}, err
	}

	if err := s.cache.Set(ctx, smsCodeKey(phoneNumber), code, s.cfg.CodeTTL).Err(); err != nil {
		return SendSMSResult{}, fmt.Errorf("store verification code: %w", err)
	}

	if s.cfg.GatewayURL != "" {
		resp, err := s.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"accessKey":   s.cfg.AccessKey,
				"signName":    s.cfg.SignName,
				"phoneNumber": phoneNumber,
				"code":        code,
			}).
			Post("/send")
		if err != nil {
			return SendSMSResult{}, fmt.Errorf("sms gateway: %w", err)
		}
		if resp.IsError() {
			return SendSMSResult{}, fmt.Errorf("sms gateway: status %d", resp.StatusCode())
		}
	} else {
		// No gateway configured in development; the code is still
		// returned so the flow stays testable end to end.
		s.log.Debug().Str("phone", phoneNumber).Msg("sms gateway not configured, skipping dispatch")
	}

	return SendSMSResult{PhoneNumber: phoneNumber, VerificationCode: code}, nil
}

// Validate consumes the stored code with an atomic GETDEL, so a code
// verifies at most once.
func (s *SMSService) Validate(ctx context.Context, phoneNumber string, code string) error {
	if !phoneNumberRegex.MatchString(phoneNumber) {
		return ErrInvalidPhoneNumber
	}

	stored, err := s.cache.GetDel(ctx, smsCodeKey(phoneNumber)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrVerificationFailed
		}
		return fmt.Errorf("load verification code: %w", err)
	}

	if stored != code {
		return ErrVerificationFailed
	}
	return nil
}

func smsCodeKey(phoneNumber string) string {
	return "sms:code:" + phoneNumber
}

func smsCooldownKey(phoneNumber string) string {
	return "sms:cooldown:" + phoneNumber
}

func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
