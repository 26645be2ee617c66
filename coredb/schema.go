package coredb

// schema is applied on every client start. All statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS tenants (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    name       TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS customers (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    tenant_id         INTEGER NOT NULL REFERENCES tenants(id),
    name              TEXT NOT NULL,
    name_normalized   TEXT NOT NULL,
    name_kana         TEXT,
    phone             TEXT,
    phone_normalized  TEXT,
    email             TEXT,
    line_user_id      TEXT,
    status            TEXT NOT NULL DEFAULT 'active',
    notes             TEXT,
    tags              TEXT,
    budget_min        INTEGER,
    budget_max        INTEGER,
    last_contacted_at DATETIME,
    last_emailed_at   DATETIME,
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_customers_tenant_phone
    ON customers(tenant_id, phone_normalized);
CREATE INDEX IF NOT EXISTS idx_customers_tenant_name
    ON customers(tenant_id, name_normalized);
CREATE UNIQUE INDEX IF NOT EXISTS idx_customers_tenant_email
    ON customers(tenant_id, email) WHERE email IS NOT NULL AND email <> '';
CREATE UNIQUE INDEX IF NOT EXISTS idx_customers_tenant_line
    ON customers(tenant_id, line_user_id) WHERE line_user_id IS NOT NULL AND line_user_id <> '';

CREATE TABLE IF NOT EXISTS buildings (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    tenant_id          INTEGER NOT NULL REFERENCES tenants(id),
    name               TEXT NOT NULL,
    name_normalized    TEXT NOT NULL,
    address            TEXT,
    address_normalized TEXT,
    lat                REAL,
    lng                REAL,
    created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_buildings_tenant_name
    ON buildings(tenant_id, name_normalized);

CREATE TABLE IF NOT EXISTS inquiries (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    tenant_id   INTEGER NOT NULL REFERENCES tenants(id),
    customer_id INTEGER NOT NULL REFERENCES customers(id),
    building_id INTEGER REFERENCES buildings(id),
    status      TEXT NOT NULL DEFAULT 'open',
    subject     TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_inquiries_customer ON inquiries(customer_id);

CREATE TABLE IF NOT EXISTS activity_logs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    tenant_id   INTEGER NOT NULL REFERENCES tenants(id),
    customer_id INTEGER NOT NULL REFERENCES customers(id),
    inquiry_id  INTEGER REFERENCES inquiries(id),
    body        TEXT NOT NULL,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_activity_logs_customer ON activity_logs(customer_id);

CREATE TABLE IF NOT EXISTS access_grants (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    customer_id INTEGER NOT NULL REFERENCES customers(id),
    user_id     INTEGER NOT NULL,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_access_grants_customer ON access_grants(customer_id);

CREATE TABLE IF NOT EXISTS message_drafts (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    customer_id INTEGER NOT NULL REFERENCES customers(id),
    subject     TEXT,
    body        TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_message_drafts_customer ON message_drafts(customer_id);

CREATE TABLE IF NOT EXISTS dismissed_pairs (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    tenant_id      INTEGER NOT NULL REFERENCES tenants(id),
    entity_type    TEXT NOT NULL,
    entity_id_low  INTEGER NOT NULL,
    entity_id_high INTEGER NOT NULL,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (tenant_id, entity_type, entity_id_low, entity_id_high)
);

CREATE TABLE IF NOT EXISTS merge_records (
    id                  TEXT PRIMARY KEY,
    tenant_id           INTEGER NOT NULL REFERENCES tenants(id),
    primary_customer_id INTEGER NOT NULL,
    operator            TEXT NOT NULL,
    reason              TEXT,
    status              TEXT NOT NULL DEFAULT 'completed',
    snapshot            BLOB NOT NULL,
    created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    undone_at           DATETIME,
    undone_by           TEXT
);

CREATE INDEX IF NOT EXISTS idx_merge_records_primary
    ON merge_records(primary_customer_id);
`
