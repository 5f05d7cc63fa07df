package queries

const (
	QueryCreateRoom = `
		INSERT INTO rooms (pair_key, a_id, a_role, b_id, b_role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (pair_key) DO NOTHING
		RETURNING id, created_at;
	`
	QueryGetRoomByPairKey = `
		SELECT id, pair_key, a_id, a_role, b_id, b_role, created_at
		FROM rooms
		WHERE pair_key = $1;
	`
	QueryGetRoom = `
		SELECT id, pair_key, a_id, a_role, b_id, b_role, created_at
		FROM rooms
		WHERE id = $1;
	`

	QueryAppendMessage = `
		INSERT INTO messages (room_id, sender_id, receiver_id, sender_role, receiver_role, body, documents)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at;
	`
	// Историческая роль лежит в самой записи; display-данные обеих сторон
	// подтягиваются join-ом на момент чтения из обоих хранилищ аккаунтов.
	QueryFetchMessagePage = `
		SELECT m.id, m.room_id, m.sender_id, m.receiver_id, m.sender_role, m.receiver_role,
		       m.body, m.documents, m.is_read, m.reactions, m.created_at,
		       COALESCE(sp.full_name, sc.full_name),
		       COALESCE(sp.avatar_url, sc.avatar_url),
		       CASE WHEN sp.id IS NOT NULL THEN 'patient'
		            WHEN sc.id IS NOT NULL THEN 'clinician'
		            ELSE m.sender_role END,
		       COALESCE(rp.full_name, rc.full_name),
		       COALESCE(rp.avatar_url, rc.avatar_url),
		       CASE WHEN rp.id IS NOT NULL THEN 'patient'
		            WHEN rc.id IS NOT NULL THEN 'clinician'
		            ELSE m.receiver_role END
		FROM messages m
		LEFT JOIN patients   sp ON sp.id = m.sender_id
		LEFT JOIN clinicians sc ON sc.id = m.sender_id
		LEFT JOIN patients   rp ON rp.id = m.receiver_id
		LEFT JOIN clinicians rc ON rc.id = m.receiver_id
		WHERE m.room_id = $1
		ORDER BY m.created_at ASC, m.id ASC
		LIMIT $2 OFFSET $3;
	`
	QueryMarkMessagesRead = `
		UPDATE messages
		SET is_read = TRUE
		WHERE room_id = $1 AND receiver_id = $2 AND is_read = FALSE;
	`
	QueryAddReaction = `
		UPDATE messages
		SET reactions = array_append(reactions, $2)
		WHERE id = $1;
	`

	QueryTouchChatList = `
		INSERT INTO chat_list (owner_id, owner_role, peer_id, peer_role, room_id, last_message_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (owner_id, room_id)
		DO UPDATE SET last_message_id = EXCLUDED.last_message_id,
		              updated_at      = EXCLUDED.updated_at;
	`
	QueryListChatsForOwner = `
		SELECT c.owner_id, c.owner_role, c.peer_id, c.peer_role, c.room_id,
		       c.last_message_id, c.updated_at,
		       COALESCE(pp.full_name, pc.full_name),
		       COALESCE(pp.avatar_url, pc.avatar_url),
		       CASE WHEN pp.id IS NOT NULL THEN 'patient'
		            WHEN pc.id IS NOT NULL THEN 'clinician'
		            ELSE c.peer_role END,
		       COALESCE(m.body, '')
		FROM chat_list c
		LEFT JOIN patients   pp ON pp.id = c.peer_id
		LEFT JOIN clinicians pc ON pc.id = c.peer_id
		LEFT JOIN messages   m  ON m.id = c.last_message_id
		WHERE c.owner_id = $1
		ORDER BY c.updated_at DESC;
	`
)
