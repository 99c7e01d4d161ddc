package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements holds the catalog DDL in dependency order.  Every
// statement is idempotent so Migrate can run on every startup.
//
// Uniqueness that the repositories pre-check is also enforced here as a
// storage-layer backstop, closing the check-then-act race between
// concurrent callers: genre names (case-insensitive), usernames
// (binary collation, case-sensitive), emails, and list names per
// owner.  Rating tables use composite primary keys so one (user, item)
// pair can never hold two rows.
//
// Cascades: seasons and episodes go with their series; ratings and
// list-membership rows go with their film/series/user/list.  Director,
// genre and actor references RESTRICT instead, backing the
// service-layer referential guard.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username    VARCHAR(100) COLLATE utf8mb4_bin NOT NULL,
		password    VARCHAR(255) NOT NULL,
		email       VARCHAR(150) NULL,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_username (username),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS directors (
		id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name           VARCHAR(150) NOT NULL,
		birth_date     DATE NULL,
		biography      VARCHAR(2000) NULL,
		photo_filename VARCHAR(255) NULL,
		created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS actors (
		id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name           VARCHAR(150) NOT NULL,
		birth_date     DATE NULL,
		biography      VARCHAR(2000) NULL,
		photo_filename VARCHAR(255) NULL,
		created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS genres (
		id   BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		UNIQUE KEY uq_genres_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS films (
		id              BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title           VARCHAR(200) NOT NULL,
		release_year    INT NULL,
		summary         VARCHAR(500) NULL,
		poster_filename VARCHAR(255) NULL,
		duration_min    INT NULL,
		director_id     BIGINT UNSIGNED NULL,
		created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_films_director FOREIGN KEY (director_id)
			REFERENCES directors (id) ON DELETE RESTRICT
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS series (
		id              BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title           VARCHAR(200) NOT NULL,
		release_year    INT NULL,
		summary         VARCHAR(1000) NULL,
		poster_filename VARCHAR(255) NULL,
		status          TINYINT UNSIGNED NOT NULL DEFAULT 0,
		director_id     BIGINT UNSIGNED NULL,
		created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_series_director FOREIGN KEY (director_id)
			REFERENCES directors (id) ON DELETE RESTRICT
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS seasons (
		id        BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		series_id BIGINT UNSIGNED NOT NULL,
		number    INT NOT NULL,
		name      VARCHAR(200) NULL,
		air_date  DATE NULL,
		CONSTRAINT fk_seasons_series FOREIGN KEY (series_id)
			REFERENCES series (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS episodes (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		season_id    BIGINT UNSIGNED NOT NULL,
		number       INT NOT NULL,
		name         VARCHAR(250) NULL,
		summary      VARCHAR(2000) NULL,
		air_date     DATE NULL,
		duration_min INT NULL,
		CONSTRAINT fk_episodes_season FOREIGN KEY (season_id)
			REFERENCES seasons (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS film_genres (
		film_id  BIGINT UNSIGNED NOT NULL,
		genre_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (film_id, genre_id),
		CONSTRAINT fk_film_genres_film FOREIGN KEY (film_id)
			REFERENCES films (id) ON DELETE CASCADE,
		CONSTRAINT fk_film_genres_genre FOREIGN KEY (genre_id)
			REFERENCES genres (id) ON DELETE RESTRICT
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS series_genres (
		series_id BIGINT UNSIGNED NOT NULL,
		genre_id  BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (series_id, genre_id),
		CONSTRAINT fk_series_genres_series FOREIGN KEY (series_id)
			REFERENCES series (id) ON DELETE CASCADE,
		CONSTRAINT fk_series_genres_genre FOREIGN KEY (genre_id)
			REFERENCES genres (id) ON DELETE RESTRICT
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS film_actors (
		film_id  BIGINT UNSIGNED NOT NULL,
		actor_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (film_id, actor_id),
		CONSTRAINT fk_film_actors_film FOREIGN KEY (film_id)
			REFERENCES films (id) ON DELETE CASCADE,
		CONSTRAINT fk_film_actors_actor FOREIGN KEY (actor_id)
			REFERENCES actors (id) ON DELETE RESTRICT
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS series_actors (
		series_id BIGINT UNSIGNED NOT NULL,
		actor_id  BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (series_id, actor_id),
		CONSTRAINT fk_series_actors_series FOREIGN KEY (series_id)
			REFERENCES series (id) ON DELETE CASCADE,
		CONSTRAINT fk_series_actors_actor FOREIGN KEY (actor_id)
			REFERENCES actors (id) ON DELETE RESTRICT
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS film_ratings (
		user_id BIGINT UNSIGNED NOT NULL,
		film_id BIGINT UNSIGNED NOT NULL,
		score   TINYINT NOT NULL,
		PRIMARY KEY (user_id, film_id),
		CONSTRAINT fk_film_ratings_user FOREIGN KEY (user_id)
			REFERENCES users (id) ON DELETE CASCADE,
		CONSTRAINT fk_film_ratings_film FOREIGN KEY (film_id)
			REFERENCES films (id) ON DELETE CASCADE,
		CONSTRAINT ck_film_ratings_score CHECK (score BETWEEN 1 AND 5)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS series_ratings (
		user_id   BIGINT UNSIGNED NOT NULL,
		series_id BIGINT UNSIGNED NOT NULL,
		score     TINYINT NOT NULL,
		PRIMARY KEY (user_id, series_id),
		CONSTRAINT fk_series_ratings_user FOREIGN KEY (user_id)
			REFERENCES users (id) ON DELETE CASCADE,
		CONSTRAINT fk_series_ratings_series FOREIGN KEY (series_id)
			REFERENCES series (id) ON DELETE CASCADE,
		CONSTRAINT ck_series_ratings_score CHECK (score BETWEEN 1 AND 5)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS user_lists (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id     BIGINT UNSIGNED NOT NULL,
		name        VARCHAR(150) NOT NULL,
		description VARCHAR(500) NULL,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_user_lists_owner_name (user_id, name),
		CONSTRAINT fk_user_lists_user FOREIGN KEY (user_id)
			REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS user_list_films (
		list_id BIGINT UNSIGNED NOT NULL,
		film_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (list_id, film_id),
		CONSTRAINT fk_list_films_list FOREIGN KEY (list_id)
			REFERENCES user_lists (id) ON DELETE CASCADE,
		CONSTRAINT fk_list_films_film FOREIGN KEY (film_id)
			REFERENCES films (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS user_list_series (
		list_id   BIGINT UNSIGNED NOT NULL,
		series_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (list_id, series_id),
		CONSTRAINT fk_list_series_list FOREIGN KEY (list_id)
			REFERENCES user_lists (id) ON DELETE CASCADE,
		CONSTRAINT fk_list_series_series FOREIGN KEY (series_id)
			REFERENCES series (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate applies the catalog schema.  Safe to call on every startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
