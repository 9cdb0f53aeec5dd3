package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config содержит настройки приложения
type Config struct {
	DBHost     string        // Хост базы данных
	DBPort     string        // Порт базы данных
	DBUser     string        // Пользователь базы данных
	DBPassword string        // Пароль базы данных
	DBName     string        // Имя базы данных
	ServerPort string        // Порт HTTP сервера
	RedisAddr  string        // Адрес Redis; пустое значение отключает кэш
	CacheTTL   time.Duration // Время жизни кэшированных проекций
	LogLevel   string        // Уровень логирования
}

// LoadConfig загружает конфигурацию из .env файла
func LoadConfig() (*Config, error) {
	// Загружаем переменные окружения из .env файла
	if err := godotenv.Load(); err != nil {
		logrus.Warn("Файл .env не найден")
	}

	// Парсим время жизни кэша
	ttl, err := time.ParseDuration(os.Getenv("CACHE_TTL"))
	if err != nil {
		ttl = 5 * time.Minute // По умолчанию 5 минут
	}

	// Создаем объект конфигурации
	config := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "bank_lending"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		RedisAddr:  getEnv("REDIS_ADDR", ""),
		CacheTTL:   ttl,
		LogLevel:   getEnv("LOG_LEVEL", "debug"),
	}

	return config, nil
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
