package mysql

// Natural keys rely on the case-insensitive utf8mb4_unicode_ci collation of
// the unique indexes; plain equality is already case-insensitive.

const guestColumns = `id, email, first_name, last_name, phone_1, phone_2, phone_3, created_at, updated_at`

const findGuestByEmailSQL = `SELECT ` + guestColumns + ` FROM guests WHERE email = ?`

const findGuestByIDSQL = `SELECT ` + guestColumns + ` FROM guests WHERE id = ?`

const insertGuestSQL = `
INSERT INTO guests
  (email, first_name, last_name, phone_1, phone_2, phone_3, created_at, updated_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

const updateGuestSQL = `
UPDATE guests SET
  email      = ?,
  first_name = ?,
  last_name  = ?,
  phone_1    = ?,
  phone_2    = ?,
  phone_3    = ?,
  updated_at = ?
WHERE id = ?
`

const reservationColumns = `id, reservation_code, start_date, end_date, nights, guests, adults, children, infants,
  status, currency, payout_price, security_price, total_price, localized_description, guest_id, created_at, updated_at`

const findReservationByCodeSQL = `SELECT ` + reservationColumns + ` FROM reservations WHERE reservation_code = ?`

const insertReservationSQL = `
INSERT INTO reservations
  (reservation_code, start_date, end_date, nights, guests, adults, children, infants,
   status, currency, payout_price, security_price, total_price, localized_description, guest_id,
   created_at, updated_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateReservationSQL = `
UPDATE reservations SET
  reservation_code      = ?,
  start_date            = ?,
  end_date              = ?,
  nights                = ?,
  guests                = ?,
  adults                = ?,
  children              = ?,
  infants               = ?,
  status                = ?,
  currency              = ?,
  payout_price          = ?,
  security_price        = ?,
  total_price           = ?,
  localized_description = ?,
  guest_id              = ?,
  updated_at            = ?
WHERE id = ?
`
