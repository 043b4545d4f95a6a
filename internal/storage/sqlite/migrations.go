package sqlite

import "database/sql"

// schema runs on startup to ensure tables exist.
// Products keep their category summary as a JSON document in the wire shape.
const schema = `
CREATE TABLE IF NOT EXISTS orders (
    id TEXT PRIMARY KEY,
    address TEXT NOT NULL,
    phone TEXT NOT NULL,
    total_price REAL NOT NULL,
    subtotal_price REAL NOT NULL,
    total_number INTEGER NOT NULL,
    delivery_fee REAL NOT NULL,
    status TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS order_products (
    order_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    product_id TEXT NOT NULL,
    amount INTEGER NOT NULL,
    price REAL NOT NULL,
    price_single REAL NOT NULL,
    params_json TEXT NOT NULL,
    PRIMARY KEY (order_id, position),
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS operators (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);
CREATE INDEX IF NOT EXISTS idx_order_products_order_id ON order_products(order_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
