package utils

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"sync"
	"time"
)

type CurrencyRate struct {
	Code string  `json:"currency"`
	Rate float64 `json:"rate"`
}

var (
	cachedRates  = sync.Map{}
	cacheMu      sync.Mutex
	lastFetch    time.Time
	cacheTimeout = 1 * time.Hour
)

func ratesURL() string {
	key := os.Getenv("EXCHANGE_RATE_API_KEY")
	if key == "" {
		key = "demo"
	}
	// Base currency is USD, rates for the rest come in one response.
	return "https://v6.exchangerate-api.com/v6/" + key + "/latest/USD"
}

func GetCurrencyRate(currencyCode string) (float64, error) {
	if rate, ok := cachedRates.Load(currencyCode); ok {
		if time.Since(lastFetch) < cacheTimeout {
			return rate.(CurrencyRate).Rate, nil
		}
	}

	if time.Since(lastFetch) >= cacheTimeout {
		if err := fetchExchangeRates(); err != nil {
			log.Printf("Не удалось обновить курсы валют: %v", err)
			if rate, ok := cachedRates.Load(currencyCode); ok {
				return rate.(CurrencyRate).Rate, nil
			}
			return 0, err
		}
	}

	if rate, ok := cachedRates.Load(currencyCode); ok {
		return rate.(CurrencyRate).Rate, nil
	}

	return 0, errors.New("валюта не найдена в справочнике курсов")
}

func fetchExchangeRates() error {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if time.Since(lastFetch) < cacheTimeout {
		return nil
	}

	client := http.Client{Timeout: 10 * time.Second}

	var lastErr error
	for i := 0; i < 3; i++ {
		resp, err := client.Get(ratesURL())
		if err != nil {
			lastErr = err
			log.Printf("Ошибка запроса курсов валют (попытка %d): %v", i+1, err)
			time.Sleep(2 * time.Second)
			continue
		}

		var response struct {
			ConversionRates map[string]float64 `json:"conversion_rates"`
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = errors.New("сервис курсов вернул ошибочный статус")
			log.Printf("Сервис курсов вернул статус %d (попытка %d)", resp.StatusCode, i+1)
			time.Sleep(2 * time.Second)
			continue
		}
		err = json.NewDecoder(resp.Body).Decode(&response)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			log.Printf("Ошибка разбора ответа сервиса курсов (попытка %d): %v", i+1, err)
			time.Sleep(2 * time.Second)
			continue
		}

		if len(response.ConversionRates) > 0 {
			for code, rate := range response.ConversionRates {
				if rate > 0 {
					cachedRates.Store(code, CurrencyRate{Code: code, Rate: rate})
				}
			}
			lastFetch = time.Now()
			log.Println("Кеш курсов валют обновлён")
			return nil
		}

		lastErr = errors.New("в ответе сервиса курсов нет данных")
		time.Sleep(2 * time.Second)
	}

	return lastErr
}

// ConvertCurrency пересчитывает сумму из одной валюты в другую через
// кросс-курс к доллару.
func ConvertCurrency(amount float64, fromCurrency, toCurrency string) (float64, error) {
	fromRate, err := GetCurrencyRate(fromCurrency)
	if err != nil {
		return 0, err
	}
	toRate, err := GetCurrencyRate(toCurrency)
	if err != nil {
		return 0, err
	}
	if fromRate == 0 || toRate == 0 {
		return 0, errors.New("некорректные курсы валют")
	}
	return amount * (toRate / fromRate), nil
}
