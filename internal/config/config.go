package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file if present. Missing files are fine in
// containerized deployments where the environment is injected directly.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}
}

func requireEnv(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("missing required environment variable %s", key)
	}
	return v, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type JazzCashConfig struct {
	MerchantID    string
	Password      string
	IntegritySalt string
	ReturnURL     string
	APIURL        string
}

// JazzCashFromEnv fails fast when credentials are absent rather than letting
// the adapter send unsigned requests.
func JazzCashFromEnv() (*JazzCashConfig, error) {
	merchantID, err := requireEnv("JAZZCASH_MERCHANT_ID")
	if err != nil {
		return nil, err
	}
	password, err := requireEnv("JAZZCASH_PASSWORD")
	if err != nil {
		return nil, err
	}
	salt, err := requireEnv("JAZZCASH_INTEGRITY_SALT")
	if err != nil {
		return nil, err
	}
	return &JazzCashConfig{
		MerchantID:    merchantID,
		Password:      password,
		IntegritySalt: salt,
		ReturnURL:     envOr("JAZZCASH_RETURN_URL", envOr("BASE_URL", "")+"/payment/callback"),
		APIURL:        envOr("JAZZCASH_API_URL", "https://sandbox.jazzcash.com.pk/ApplicationAPI/API/Payment/DoTransaction"),
	}, nil
}

type EasyPaisaConfig struct {
	StoreID   string
	HashKey   string
	ReturnURL string
	APIURL    string
}

func EasyPaisaFromEnv() (*EasyPaisaConfig, error) {
	storeID, err := requireEnv("EASYPAISA_STORE_ID")
	if err != nil {
		return nil, err
	}
	hashKey, err := requireEnv("EASYPAISA_HASH_KEY")
	if err != nil {
		return nil, err
	}
	return &EasyPaisaConfig{
		StoreID:   storeID,
		HashKey:   hashKey,
		ReturnURL: envOr("EASYPAISA_RETURN_URL", envOr("BASE_URL", "")+"/payment/callback"),
		APIURL:    envOr("EASYPAISA_API_URL", "https://easypaisa.com.pk/easypay/Index.jsf"),
	}, nil
}

type PayProConfig struct {
	MerchantID string
	Secret     string
	ReturnURL  string
	APIURL     string
}

func PayProFromEnv() (*PayProConfig, error) {
	merchantID, err := requireEnv("PAYPRO_MERCHANT_ID")
	if err != nil {
		return nil, err
	}
	secret, err := requireEnv("PAYPRO_SECRET")
	if err != nil {
		return nil, err
	}
	return &PayProConfig{
		MerchantID: merchantID,
		Secret:     secret,
		ReturnURL:  envOr("PAYPRO_RETURN_URL", envOr("BASE_URL", "")+"/payment/callback"),
		APIURL:     envOr("PAYPRO_API_URL", "https://api.paypro.com.pk/v2/ppro/co"),
	}, nil
}

type TCSConfig struct {
	BaseURL string
	APIKey  string
}

func TCSFromEnv() (*TCSConfig, error) {
	apiKey, err := requireEnv("TCS_API_KEY")
	if err != nil {
		return nil, err
	}
	return &TCSConfig{
		BaseURL: envOr("TCS_API_URL", "https://api.tcs.com.pk/v1"),
		APIKey:  apiKey,
	}, nil
}

type MPConfig struct {
	BaseURL    string
	APIKey     string
	MerchantID string
}

func MPFromEnv() (*MPConfig, error) {
	apiKey, err := requireEnv("MP_API_KEY")
	if err != nil {
		return nil, err
	}
	merchantID, err := requireEnv("MP_MERCHANT_ID")
	if err != nil {
		return nil, err
	}
	return &MPConfig{
		BaseURL:    envOr("MP_API_URL", "https://api.mpexpress.com/v1"),
		APIKey:     apiKey,
		MerchantID: merchantID,
	}, nil
}
