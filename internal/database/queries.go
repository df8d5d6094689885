package database

import (
	"database/sql"
	"time"
)

const (
	createSubscriptionQuery = "INSERT INTO channel_subscribers (channel_id, user_id, subscribed_at) " +
		"VALUES ($1, $2, $3) ON CONFLICT (channel_id, user_id) DO NOTHING"

	selectMessageColumns = "SELECT m.id, m.sender_id, u.username, m.type, m.receiver_id, m.group_id, m.channel_id, " +
		"m.message_text, m.is_read, m.created_at FROM messages m JOIN users u ON u.id = m.sender_id "
)

func (db *PgMessengerRepository) CreateAccount(params CreateAccountParams) (User, error) {
	res := db.conn.QueryRow(
		"INSERT INTO users (username, phone, password_hash, created_at) "+
			"VALUES ($1, $2, $3, $4) RETURNING id, username, phone, created_at",
		params.Username,
		params.Phone,
		params.PasswordHash,
		time.Now().UTC(),
	)

	var u User
	err := res.Scan(
		&u.Id,
		&u.Username,
		&u.Phone,
		&u.CreatedAt,
	)

	return u, err
}

func (db *PgMessengerRepository) GetAccountById(id int) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, phone, created_at FROM users "+
			"WHERE id = $1 LIMIT 1",
		id,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.Phone,
		&user.CreatedAt,
	)

	return user, err
}

func (db *PgMessengerRepository) GetAccountByUsername(username string) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, phone, password_hash, created_at FROM users "+
			"WHERE username = $1 LIMIT 1",
		username,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.Phone,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	return user, err
}

func (db *PgMessengerRepository) ListAccounts(excludeId int) ([]User, error) {
	rows, err := db.conn.Query(
		"SELECT id, username, phone, created_at FROM users "+
			"WHERE id != $1 ORDER BY username",
		excludeId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err = rows.Scan(&u.Id, &u.Username, &u.Phone, &u.CreatedAt); err != nil {
			break
		}

		users = append(users, u)
	}

	return users, err
}

// CreateGroup inserts the group row, the owner's membership and each extra
// member in one transaction. Duplicate member ids and the owner are skipped
// via the unique constraint rather than surfaced as errors.
func (db *PgMessengerRepository) CreateGroup(params CreateGroupParams) (Group, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return Group{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res := tx.QueryRow(
		"INSERT INTO \"groups\" (name, description, owner_id, created_at) "+
			"VALUES ($1, $2, $3, $4) RETURNING id, name, description, owner_id, created_at",
		params.Name,
		params.Description,
		params.OwnerId,
		time.Now().UTC(),
	)

	var group Group
	err = res.Scan(
		&group.Id,
		&group.Name,
		&group.Description,
		&group.OwnerId,
		&group.CreatedAt,
	)
	if err != nil {
		return Group{}, err
	}

	memberIds := append([]int{params.OwnerId}, params.MemberIds...)
	for _, memberId := range memberIds {
		_, err = tx.Exec(
			"INSERT INTO group_members (group_id, user_id, joined_at) "+
				"VALUES ($1, $2, $3) ON CONFLICT (group_id, user_id) DO NOTHING",
			group.Id,
			memberId,
			time.Now().UTC(),
		)
		if err != nil {
			return Group{}, err
		}
	}

	err = tx.QueryRow(
		"SELECT COUNT(*) FROM group_members WHERE group_id = $1", group.Id,
	).Scan(&group.MemberCount)
	if err != nil {
		return Group{}, err
	}

	if err = tx.Commit(); err != nil {
		return Group{}, err
	}

	return group, nil
}

func (db *PgMessengerRepository) IsGroupMember(groupId, userId int) bool {
	var exists bool
	err := db.conn.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)",
		groupId,
		userId,
	).Scan(&exists)

	return err == nil && exists
}

func (db *PgMessengerRepository) ListGroupsForAccount(userId int) ([]Group, error) {
	rows, err := db.conn.Query(
		"SELECT g.id, g.name, g.description, g.owner_id, g.created_at, "+
			"(SELECT COUNT(*) FROM group_members mc WHERE mc.group_id = g.id) AS member_count "+
			"FROM \"groups\" g JOIN group_members m ON m.group_id = g.id "+
			"WHERE m.user_id = $1 ORDER BY g.name",
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []Group
	for rows.Next() {
		var g Group
		if err = rows.Scan(&g.Id, &g.Name, &g.Description, &g.OwnerId, &g.CreatedAt, &g.MemberCount); err != nil {
			break
		}

		groups = append(groups, g)
	}

	return groups, err
}

func (db *PgMessengerRepository) GetGroupMemberIds(groupId int) ([]int, error) {
	return db.queryIds(
		"SELECT user_id FROM group_members WHERE group_id = $1", groupId,
	)
}

// CreateChannel inserts the channel row and auto-subscribes the owner in one
// transaction.
func (db *PgMessengerRepository) CreateChannel(params CreateChannelParams) (Channel, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return Channel{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res := tx.QueryRow(
		"INSERT INTO channels (name, description, owner_id, is_public, created_at) "+
			"VALUES ($1, $2, $3, $4, $5) RETURNING id, name, description, owner_id, is_public, created_at",
		params.Name,
		params.Description,
		params.OwnerId,
		params.IsPublic,
		time.Now().UTC(),
	)

	var channel Channel
	err = res.Scan(
		&channel.Id,
		&channel.Name,
		&channel.Description,
		&channel.OwnerId,
		&channel.IsPublic,
		&channel.CreatedAt,
	)
	if err != nil {
		return Channel{}, err
	}

	_, err = tx.Exec(createSubscriptionQuery, channel.Id, params.OwnerId, time.Now().UTC())
	if err != nil {
		return Channel{}, err
	}

	if err = tx.Commit(); err != nil {
		return Channel{}, err
	}

	channel.SubscriberCount = 1
	channel.IsSubscribed = true
	channel.IsAdmin = true

	return channel, nil
}

// GetChannelById resolves a channel together with the viewer-dependent
// fields (subscriber count, is_subscribed, is_admin) in a single query.
func (db *PgMessengerRepository) GetChannelById(channelId, viewerId int) (Channel, error) {
	row := db.conn.QueryRow(
		"SELECT c.id, c.name, c.description, c.owner_id, c.is_public, c.created_at, "+
			"(SELECT COUNT(*) FROM channel_subscribers sc WHERE sc.channel_id = c.id) AS subscriber_count, "+
			"EXISTS (SELECT 1 FROM channel_subscribers s WHERE s.channel_id = c.id AND s.user_id = $2) AS is_subscribed, "+
			"(c.owner_id = $2 OR EXISTS (SELECT 1 FROM channel_admins a WHERE a.channel_id = c.id AND a.user_id = $2)) AS is_admin "+
			"FROM channels c WHERE c.id = $1 LIMIT 1",
		channelId,
		viewerId,
	)

	var c Channel
	err := row.Scan(
		&c.Id,
		&c.Name,
		&c.Description,
		&c.OwnerId,
		&c.IsPublic,
		&c.CreatedAt,
		&c.SubscriberCount,
		&c.IsSubscribed,
		&c.IsAdmin,
	)

	return c, err
}

func (db *PgMessengerRepository) IsChannelSubscriber(channelId, userId int) bool {
	var exists bool
	err := db.conn.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM channel_subscribers WHERE channel_id = $1 AND user_id = $2)",
		channelId,
		userId,
	).Scan(&exists)

	return err == nil && exists
}

func (db *PgMessengerRepository) CreateSubscription(channelId, userId int) error {
	_, err := db.conn.Exec(createSubscriptionQuery, channelId, userId, time.Now().UTC())

	return err
}

func (db *PgMessengerRepository) DeleteSubscription(channelId, userId int) error {
	_, err := db.conn.Exec(
		"DELETE FROM channel_subscribers WHERE channel_id = $1 AND user_id = $2",
		channelId,
		userId,
	)

	return err
}

func (db *PgMessengerRepository) CountSubscribers(channelId int) (int, error) {
	var count int
	err := db.conn.QueryRow(
		"SELECT COUNT(*) FROM channel_subscribers WHERE channel_id = $1", channelId,
	).Scan(&count)

	return count, err
}

func (db *PgMessengerRepository) ListChannelsForAccount(userId int) ([]Channel, error) {
	rows, err := db.conn.Query(
		"SELECT c.id, c.name, c.description, c.owner_id, c.is_public, c.created_at, "+
			"(SELECT COUNT(*) FROM channel_subscribers sc WHERE sc.channel_id = c.id) AS subscriber_count, "+
			"EXISTS (SELECT 1 FROM channel_subscribers s WHERE s.channel_id = c.id AND s.user_id = $1) AS is_subscribed, "+
			"(c.owner_id = $1 OR EXISTS (SELECT 1 FROM channel_admins a WHERE a.channel_id = c.id AND a.user_id = $1)) AS is_admin "+
			"FROM channels c "+
			"WHERE c.is_public OR EXISTS (SELECT 1 FROM channel_subscribers s WHERE s.channel_id = c.id AND s.user_id = $1) "+
			"ORDER BY c.name",
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []Channel
	for rows.Next() {
		var c Channel
		err = rows.Scan(
			&c.Id,
			&c.Name,
			&c.Description,
			&c.OwnerId,
			&c.IsPublic,
			&c.CreatedAt,
			&c.SubscriberCount,
			&c.IsSubscribed,
			&c.IsAdmin,
		)
		if err != nil {
			break
		}

		channels = append(channels, c)
	}

	return channels, err
}

func (db *PgMessengerRepository) GetChannelSubscriberIds(channelId int) ([]int, error) {
	return db.queryIds(
		"SELECT user_id FROM channel_subscribers WHERE channel_id = $1", channelId,
	)
}

func (db *PgMessengerRepository) ChannelAdminExists(channelId, userId int) bool {
	var exists bool
	err := db.conn.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM channel_admins WHERE channel_id = $1 AND user_id = $2)",
		channelId,
		userId,
	).Scan(&exists)

	return err == nil && exists
}

func (db *PgMessengerRepository) CreateChannelAdmin(channelId, userId, addedBy int) error {
	_, err := db.conn.Exec(
		"INSERT INTO channel_admins (channel_id, user_id, added_by, added_at) "+
			"VALUES ($1, $2, $3, $4)",
		channelId,
		userId,
		addedBy,
		time.Now().UTC(),
	)

	return err
}

// DeleteChannelAdmin removes a delegated admin row. Returns sql.ErrNoRows
// when no such grant exists.
func (db *PgMessengerRepository) DeleteChannelAdmin(channelId, userId int) error {
	res, err := db.conn.Exec(
		"DELETE FROM channel_admins WHERE channel_id = $1 AND user_id = $2",
		channelId,
		userId,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (db *PgMessengerRepository) ListChannelAdmins(channelId int) ([]ChannelAdmin, error) {
	rows, err := db.conn.Query(
		"SELECT a.channel_id, a.user_id, u.username, a.added_by, a.added_at "+
			"FROM channel_admins a JOIN users u ON u.id = a.user_id "+
			"WHERE a.channel_id = $1 ORDER BY a.added_at",
		channelId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []ChannelAdmin
	for rows.Next() {
		var a ChannelAdmin
		if err = rows.Scan(&a.ChannelId, &a.UserId, &a.Username, &a.AddedBy, &a.AddedAt); err != nil {
			break
		}

		admins = append(admins, a)
	}

	return admins, err
}

func (db *PgMessengerRepository) CreateMessage(params CreateMessageParams) (Message, error) {
	var receiverId, groupId, channelId sql.NullInt64
	switch params.Kind {
	case "private":
		receiverId = sql.NullInt64{Int64: int64(params.TargetId), Valid: true}
	case "group":
		groupId = sql.NullInt64{Int64: int64(params.TargetId), Valid: true}
	case "channel":
		channelId = sql.NullInt64{Int64: int64(params.TargetId), Valid: true}
	}

	res := db.conn.QueryRow(
		"INSERT INTO messages (sender_id, type, receiver_id, group_id, channel_id, message_text, created_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6, $7) "+
			"RETURNING id, created_at, (SELECT username FROM users WHERE id = $1)",
		params.SenderId,
		params.Kind,
		receiverId,
		groupId,
		channelId,
		params.Text,
		time.Now().UTC(),
	)

	msg := Message{
		SenderId:   params.SenderId,
		Type:       params.Kind,
		ReceiverId: int(receiverId.Int64),
		GroupId:    int(groupId.Int64),
		ChannelId:  int(channelId.Int64),
		Text:       params.Text,
	}
	err := res.Scan(&msg.Id, &msg.CreatedAt, &msg.SenderName)

	return msg, err
}

func (db *PgMessengerRepository) GetDirectMessages(userId, peerId int) ([]Message, error) {
	return db.queryMessages(
		selectMessageColumns+
			"WHERE m.type = 'private' AND ((m.sender_id = $1 AND m.receiver_id = $2) "+
			"OR (m.sender_id = $2 AND m.receiver_id = $1)) "+
			"ORDER BY m.created_at, m.id",
		userId,
		peerId,
	)
}

func (db *PgMessengerRepository) GetGroupMessages(groupId int) ([]Message, error) {
	return db.queryMessages(
		selectMessageColumns+
			"WHERE m.type = 'group' AND m.group_id = $1 ORDER BY m.created_at, m.id",
		groupId,
	)
}

func (db *PgMessengerRepository) GetChannelMessages(channelId int) ([]Message, error) {
	return db.queryMessages(
		selectMessageColumns+
			"WHERE m.type = 'channel' AND m.channel_id = $1 ORDER BY m.created_at, m.id",
		channelId,
	)
}

func (db *PgMessengerRepository) queryMessages(query string, args ...any) ([]Message, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var (
			msg        Message
			receiverId sql.NullInt64
			groupId    sql.NullInt64
			channelId  sql.NullInt64
		)

		err = rows.Scan(
			&msg.Id,
			&msg.SenderId,
			&msg.SenderName,
			&msg.Type,
			&receiverId,
			&groupId,
			&channelId,
			&msg.Text,
			&msg.IsRead,
			&msg.CreatedAt,
		)
		if err != nil {
			break
		}

		msg.ReceiverId = int(receiverId.Int64)
		msg.GroupId = int(groupId.Int64)
		msg.ChannelId = int(channelId.Int64)

		messages = append(messages, msg)
	}

	return messages, err
}

func (db *PgMessengerRepository) queryIds(query string, args ...any) ([]int, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err = rows.Scan(&id); err != nil {
			break
		}

		ids = append(ids, id)
	}

	return ids, err
}
