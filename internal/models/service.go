package models

import (
	"encoding/json"
	"time"
)

type Service struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"duration_minutes"`
	Active          bool      `json:"active"`
	PackageTotal    int       `json:"package_total,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UnmarshalJSON accepts the historical aliases for the package-size field
// (pacote_total, pacote_quantidade, quantidade_pacote, qtd_pacote) that older
// exports of the catalog still carry.
func (s *Service) UnmarshalJSON(data []byte) error {
	type alias Service
	aux := struct {
		*alias
		PacoteTotal      *int `json:"pacote_total"`
		PacoteQuantidade *int `json:"pacote_quantidade"`
		QuantidadePacote *int `json:"quantidade_pacote"`
		QtdPacote        *int `json:"qtd_pacote"`
	}{alias: (*alias)(s)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if s.PackageTotal == 0 {
		for _, v := range []*int{aux.PacoteTotal, aux.PacoteQuantidade, aux.QuantidadePacote, aux.QtdPacote} {
			if v != nil && *v > 0 {
				s.PackageTotal = *v
				break
			}
		}
	}
	return nil
}

// IndexServices builds an id lookup for the service catalog.
func IndexServices(services []Service) map[string]Service {
	idx := make(map[string]Service, len(services))
	for _, svc := range services {
		idx[svc.ID] = svc
	}
	return idx
}
