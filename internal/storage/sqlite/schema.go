package sqlite

// Schema creates every table used by the SQLite backend.
//
// moves references games without ON DELETE CASCADE: deleting a game must
// remove its moves explicitly first, otherwise the foreign key rejects it.
const Schema = `
CREATE TABLE IF NOT EXISTS players (
    id           TEXT PRIMARY KEY,
    username     TEXT NOT NULL DEFAULT '',
    display_name TEXT NOT NULL DEFAULT '',
    created_at   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS registered_players (
    player_id     TEXT PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    INTEGER NOT NULL,
    updated_at    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS games (
    id            TEXT PRIMARY KEY,
    first_player  TEXT NOT NULL,
    second_player TEXT NOT NULL,
    status        TEXT NOT NULL
                  CHECK(status IN ('first_to_move', 'second_to_move', 'first_wins', 'second_wins', 'draw')),
    created_at    INTEGER NOT NULL,
    last_active   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_games_first_player ON games(first_player);
CREATE INDEX IF NOT EXISTS idx_games_second_player ON games(second_player);
CREATE INDEX IF NOT EXISTS idx_games_active ON games(status)
    WHERE status IN ('first_to_move', 'second_to_move');

CREATE TABLE IF NOT EXISTS moves (
    game_id         TEXT NOT NULL REFERENCES games(id),
    seq             INTEGER NOT NULL,
    x               INTEGER NOT NULL CHECK(x BETWEEN 0 AND 2),
    y               INTEGER NOT NULL CHECK(y BETWEEN 0 AND 2),
    comment         TEXT NOT NULL DEFAULT '',
    by_first_player INTEGER NOT NULL,
    created_at      INTEGER NOT NULL,
    PRIMARY KEY (game_id, seq),
    UNIQUE (game_id, x, y)
);

CREATE TABLE IF NOT EXISTS invitations (
    id          TEXT PRIMARY KEY,
    from_player TEXT NOT NULL,
    to_player   TEXT NOT NULL,
    message     TEXT NOT NULL DEFAULT '',
    created_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_invitations_to ON invitations(to_player);
CREATE INDEX IF NOT EXISTS idx_invitations_from ON invitations(from_player);
`
