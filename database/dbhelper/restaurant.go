package dbhelper

import (
	"github.com/google/uuid"

	"github.com/platewise/platewise/database"
	"github.com/platewise/platewise/models"
)

func ListRestaurants() ([]models.Restaurant, error) {
	rows, err := database.Platewise.Query(`
		SELECT id, name, owner_id, description, created_at
		FROM restaurants
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []models.Restaurant
	for rows.Next() {
		var r models.Restaurant
		if err := rows.Scan(&r.ID, &r.Name, &r.OwnerID, &r.Description, &r.CreatedAt); err != nil {
			return nil, err
		}
		restaurants = append(restaurants, r)
	}
	return restaurants, rows.Err()
}

func GetRestaurantByID(id uuid.UUID) (*models.Restaurant, error) {
	var r models.Restaurant
	err := database.Platewise.QueryRow(`
		SELECT id, name, owner_id, description, created_at
		FROM restaurants
		WHERE id = $1`, id).
		Scan(&r.ID, &r.Name, &r.OwnerID, &r.Description, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func ListMenuByRestaurant(restaurantID uuid.UUID) ([]models.MenuItem, error) {
	rows, err := database.Platewise.Query(`
		SELECT id, restaurant_id, name, description, price, prep_minutes, is_available, created_at
		FROM menu_items
		WHERE restaurant_id = $1
		ORDER BY created_at DESC`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var m models.MenuItem
		if err := rows.Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Description, &m.Price, &m.PrepMinutes, &m.IsAvailable, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
