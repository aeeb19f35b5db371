package db

import (
	"context"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

var DbPool *pgxpool.Pool

func InitDB() {
	var err error

	DATABASE_URL := os.Getenv("DATABASE_URL")
	DbPool, err = pgxpool.New(context.Background(), DATABASE_URL)
	if err != nil {
		log.Fatal("Unable to connect to database:", err)
	}

	_, err = DbPool.Exec(context.Background(), "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		log.Fatal("Error enabling pgvector:", err)
	}

	_, err = DbPool.Exec(context.Background(), `
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		user_id TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		image_url TEXT DEFAULT '',
		stripe_customer_id TEXT DEFAULT '',
		subscription_status TEXT DEFAULT '',
		stripe_product_id TEXT DEFAULT '',
		subscription_id TEXT DEFAULT '',
		current_period_end TIMESTAMPTZ,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS servers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		image_url TEXT DEFAULT '',
		invite_code TEXT UNIQUE NOT NULL,
		profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS channels (
		id TEXT PRIMARY KEY,
		server_id TEXT NOT NULL REFERENCES servers(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'TEXT',
		profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS members (
		id TEXT PRIMARY KEY,
		role TEXT NOT NULL DEFAULT 'GUEST',
		profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		server_id TEXT NOT NULL REFERENCES servers(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		UNIQUE (profile_id, server_id)
	);

	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		file_url TEXT DEFAULT '',
		deleted BOOLEAN NOT NULL DEFAULT FALSE,
		edited BOOLEAN NOT NULL DEFAULT FALSE,
		member_id TEXT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		channel_id TEXT NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
		discord_message_id TEXT UNIQUE,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_messages_channel_created ON messages (channel_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS message_embeddings (
		message_id TEXT PRIMARY KEY REFERENCES messages(id) ON DELETE CASCADE,
		server_id TEXT NOT NULL,
		embedding vector(1536) -- OpenAI embeddings are 1536-dimensional
	);

	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		body TEXT DEFAULT '',
		server_id TEXT DEFAULT '',
		channel_id TEXT DEFAULT '',
		message_id TEXT DEFAULT '',
		read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_notifications_profile ON notifications (profile_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS channel_watermarks (
		discord_channel_id TEXT PRIMARY KEY,
		last_message_id TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);`)
	if err != nil {
		log.Fatal("Error creating tables:", err)
	}
}

func CloseDB() {
	if DbPool != nil {
		DbPool.Close()
	}
}
