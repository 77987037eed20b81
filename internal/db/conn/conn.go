package conn

import (
	"database/sql"
	"fmt"

	"monepiceriz/internal/config"

	_ "github.com/lib/pq"
)

func Connection(conf *config.DBConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		conf.Host,
		conf.Port,
		conf.User,
		conf.Password,
		conf.DBName)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("ouverture de la connexion impossible: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("la base ne répond pas: %w", err)
	}

	return db, nil
}
