package services

import (
	"fmt"
	"time"

	"pettycash/config"

	"gopkg.in/gomail.v2"
)

// EmailService предоставляет методы для отправки email
type EmailService struct {
	dialer *gomail.Dialer
	from   string
}

// NewEmailService создает новый экземпляр EmailService
func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
	)

	return &EmailService{
		dialer: dialer,
		from:   cfg.SMTP.From,
	}
}

// SendEmail отправляет email
func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("ошибка отправки email: %v", err)
	}

	return nil
}

// SendTransactionNotification отправляет уведомление об операции с транзакцией
func (s *EmailService) SendTransactionNotification(to, accountName string, amount int64, txType, operation string) error {
	subject := "Уведомление об операции по кассе"
	body := fmt.Sprintf(`
		<h2>%s</h2>
		<p>Счет: %s</p>
		<p>Тип: %s</p>
		<p>Сумма: %d</p>
		<p>Дата: %s</p>
	`, operation, accountName, txType, amount, time.Now().Format("02.01.2006 15:04:05"))

	return s.SendEmail(to, subject, body)
}

// SendBalanceMismatchNotification отправляет уведомление о расхождении баланса
func (s *EmailService) SendBalanceMismatchNotification(to string, accountID uint, stored, computed int64) error {
	subject := "Обнаружено расхождение баланса"
	body := fmt.Sprintf(`
		<h2>Расхождение баланса</h2>
		<p>Счет: %d</p>
		<p>Хранимый баланс: %d</p>
		<p>Вычисленный баланс: %d</p>
		<p>Дата: %s</p>
		<p>Требуется ручная сверка.</p>
	`, accountID, stored, computed, time.Now().Format("02.01.2006 15:04:05"))

	return s.SendEmail(to, subject, body)
}
