// Package directory holds the customer records a session resolves route IDs against.
package directory

import (
	"sync"

	"customer-nav/internal/models"
)

// Directory is the ordered customer list of one session. It is filled at most once.
type Directory struct {
	mu        sync.RWMutex
	customers []models.Customer
	loaded    bool
}

func New() *Directory {
	return &Directory{}
}

// Replace installs the listing. It reports false if the directory was already filled.
func (d *Directory) Replace(customers []models.Customer) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loaded {
		return false
	}
	d.customers = append([]models.Customer(nil), customers...)
	d.loaded = true
	return true
}

func (d *Directory) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.customers)
}

// All returns a copy of the listing in response order.
func (d *Directory) All() []models.Customer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.Customer(nil), d.customers...)
}

// Lookup returns the first record with the given id and how many records carry it.
func (d *Directory) Lookup(id int) (models.Customer, int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var (
		found models.Customer
		n     int
	)
	for _, c := range d.customers {
		if c.ID == id {
			if n == 0 {
				found = c
			}
			n++
		}
	}
	return found, n
}
