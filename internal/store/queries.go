package store

const (
	insertEventQuery = `
		CREATE (e:Event {
			id: $id,
			timestamp: $timestamp,
			text: $text,
			embedding: $embedding,
			cause_id: $cause_id,
			relationship_text: $relationship_text
		})
		RETURN e.id AS id
	`

	linkCauseQuery = `
		MATCH (cause:Event {id: $cause_id})
		MATCH (effect:Event {id: $effect_id})
		MERGE (cause)-[r:CAUSED]->(effect)
		SET r.relationship_text = $relationship_text
		RETURN r.relationship_text AS relationship_text
	`

	nextIDQuery = `
		MATCH (e:Event)
		RETURN coalesce(max(e.id), 0) + 1 AS id
	`

	getEventQuery = `
		MATCH (e:Event {id: $id})
		RETURN e.id AS id, e.timestamp AS timestamp, e.text AS text,
			e.embedding AS embedding, e.cause_id AS cause_id,
			e.relationship_text AS relationship_text
	`

	recentSinceQuery = `
		MATCH (e:Event)
		WHERE e.timestamp > $cutoff
		RETURN e.id AS id, e.timestamp AS timestamp, e.text AS text,
			e.embedding AS embedding, e.cause_id AS cause_id,
			e.relationship_text AS relationship_text
		ORDER BY e.timestamp DESC, e.id DESC
		LIMIT $limit
	`

	childrenOfQuery = `
		MATCH (e:Event)
		WHERE e.cause_id = $id
		RETURN e.id AS id, e.timestamp AS timestamp, e.text AS text,
			e.embedding AS embedding, e.cause_id AS cause_id,
			e.relationship_text AS relationship_text
		ORDER BY e.timestamp ASC, e.id ASC
	`

	allEventsQuery = `
		MATCH (e:Event)
		RETURN e.id AS id, e.timestamp AS timestamp, e.text AS text,
			e.embedding AS embedding, e.cause_id AS cause_id,
			e.relationship_text AS relationship_text
		ORDER BY e.id ASC
	`
)
