package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/logging"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
)

// LeadStatusIndex is the GSI keyed on StatusKey
const LeadStatusIndex = "user-status-index"

const rollbackTimeout = 10 * time.Second

// DynamoDBAPI is the subset of the DynamoDB client used by the store
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DynamoDBStore keeps every entity in one table. Multi-row writes go through
// TransactWriteItems first; when the transaction itself cannot be used the
// store falls back to conditional writes issued one at a time.
type DynamoDBStore struct {
	client    DynamoDBAPI
	tableName string
	logger    *zap.Logger
	now       func() time.Time
}

var _ Store = (*DynamoDBStore)(nil)

// uniqueGuard is the marker row that reserves a unique value
type uniqueGuard struct {
	PK       string `dynamodbav:"PK"`
	SK       string `dynamodbav:"SK"`
	TargetID string `dynamodbav:"target_id"`
	UserID   string `dynamodbav:"user_id"`
}

// NewDynamoDBStore creates a store on the given table
func NewDynamoDBStore(client DynamoDBAPI, tableName string, logger *zap.Logger) *DynamoDBStore {
	return &DynamoDBStore{
		client:    client,
		tableName: tableName,
		logger:    logging.OrNop(logger),
		now:       time.Now,
	}
}

// NewDynamoDBStoreFromConfig creates a store with a client built from aws config
func NewDynamoDBStoreFromConfig(awsCfg aws.Config, tableName string, logger *zap.Logger) *DynamoDBStore {
	return NewDynamoDBStore(dynamodb.NewFromConfig(awsCfg), tableName, logger)
}

// Organizer operations

func (s *DynamoDBStore) GetOrCreateOrganizer(ctx context.Context, userID, name string) (*models.Organizer, bool, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(name) == "" {
		return nil, false, fmt.Errorf("%w: organizer needs a user and a name", ErrInvalidRequest)
	}

	guardPK := models.CreateOrganizerNameGuardPK(userID, name)
	if existing, err := s.organizerByGuard(ctx, guardPK); err != nil {
		return nil, false, err
	} else if existing != nil {
		return existing, false, nil
	}

	org := models.NewOrganizer(userID, name, s.now())
	orgItem, err := attributevalue.MarshalMap(org)
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal organizer: %w", err)
	}
	guardItem, err := s.guardItem(guardPK, org.ID, userID)
	if err != nil {
		return nil, false, err
	}

	err = s.transactPuts(ctx, []map[string]types.AttributeValue{guardItem, orgItem})
	if err == nil {
		return org, true, nil
	}

	if !isConditionalFailure(err) {
		s.logger.Warn("Organizer transaction failed, using sequential writes",
			zap.String("user_id", userID),
			zap.Error(err))
		err = s.putSequential(ctx, []map[string]types.AttributeValue{guardItem, orgItem})
		if err == nil {
			return org, true, nil
		}
		if !isConditionalFailure(err) {
			return nil, false, fmt.Errorf("failed to create organizer: %w", err)
		}
	}

	// Lost a race with another writer: reuse the row it created
	existing, err := s.organizerByGuard(ctx, guardPK)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("organizer guard %s exists without organizer", guardPK)
	}
	return existing, false, nil
}

func (s *DynamoDBStore) SetOrganizerWebsiteIfEmpty(ctx context.Context, userID, organizerID, website string) (bool, error) {
	org, err := s.ownedOrganizer(ctx, userID, organizerID)
	if err != nil {
		return false, err
	}
	if org.HasWebsite() || strings.TrimSpace(website) == "" {
		return false, nil
	}

	now := s.now()
	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.tableName),
		Key:                 itemKey(org.PK, org.SK),
		UpdateExpression:    aws.String("SET website = :website, updated_at = :now"),
		ConditionExpression: aws.String("attribute_not_exists(website) OR website = :empty"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":website": &types.AttributeValueMemberS{Value: website},
			":empty":   &types.AttributeValueMemberS{Value: ""},
			":now":     timeValue(now),
		},
	})
	if err == nil {
		return true, nil
	}
	if isConditionalFailure(err) {
		return false, nil
	}

	s.logger.Warn("Conditional website update failed, using read-modify-write",
		zap.String("organizer_id", organizerID),
		zap.Error(err))

	current, err := s.ownedOrganizer(ctx, userID, organizerID)
	if err != nil {
		return false, err
	}
	if current.HasWebsite() {
		return false, nil
	}
	current.Website = website
	current.UpdatedAt = now
	if err := s.putItem(ctx, current, "attribute_exists(PK)"); err != nil {
		return false, fmt.Errorf("failed to update organizer website: %w", err)
	}
	return true, nil
}

// Event and lead operations

func (s *DynamoDBStore) CreateEventWithOrganizer(ctx context.Context, userID string, record models.EventRecord) (*models.Event, *models.Organizer, error) {
	event, org, _, err := s.createEvent(ctx, userID, record, false)
	return event, org, err
}

func (s *DynamoDBStore) CreateCompleteLead(ctx context.Context, userID string, record models.EventRecord) (*models.LeadView, error) {
	event, org, lead, err := s.createEvent(ctx, userID, record, true)
	if err != nil {
		return nil, err
	}
	return &models.LeadView{Lead: *lead, Organizer: *org, Event: *event}, nil
}

func (s *DynamoDBStore) EventURLExists(ctx context.Context, sourceURL string) (bool, error) {
	sourceURL = models.NormalizeSourceURL(sourceURL)
	if sourceURL == "" {
		return false, nil
	}
	return s.itemExists(ctx, models.CreateEventURLGuardPK(sourceURL), models.UniqueSK)
}

// createEvent reserves the source URL and writes the event, plus a pending lead when withLead is set
func (s *DynamoDBStore) createEvent(ctx context.Context, userID string, record models.EventRecord, withLead bool) (*models.Event, *models.Organizer, *models.Lead, error) {
	sourceURL := models.NormalizeSourceURL(record.SourceURL)
	if sourceURL == "" {
		return nil, nil, nil, fmt.Errorf("%w: event source url is required", ErrInvalidRequest)
	}

	urlGuardPK := models.CreateEventURLGuardPK(sourceURL)
	exists, err := s.itemExists(ctx, urlGuardPK, models.UniqueSK)
	if err != nil {
		return nil, nil, nil, err
	}
	if exists {
		return nil, nil, nil, fmt.Errorf("%w: %s", ErrDuplicateEvent, sourceURL)
	}

	org, _, err := s.GetOrCreateOrganizer(ctx, userID, record.OrganizerName())
	if err != nil {
		return nil, nil, nil, err
	}

	now := s.now()
	event := models.NewEvent(userID, org.ID, record, now)
	guardItem, err := s.guardItem(urlGuardPK, event.ID, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	eventItem, err := attributevalue.MarshalMap(event)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	items := []map[string]types.AttributeValue{guardItem, eventItem}

	var lead *models.Lead
	if withLead {
		lead = models.NewLead(userID, org.ID, event.ID, now)
		leadItem, err := attributevalue.MarshalMap(lead)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to marshal lead: %w", err)
		}
		items = append(items, leadItem)
	}

	err = s.transactPuts(ctx, items)
	if err != nil && !isConditionalFailure(err) {
		s.logger.Warn("Event transaction failed, using sequential writes",
			zap.String("source_url", sourceURL),
			zap.Error(err))
		err = s.putSequential(ctx, items)
	}
	if err != nil {
		if isConditionalFailure(err) {
			return nil, nil, nil, fmt.Errorf("%w: %s", ErrDuplicateEvent, sourceURL)
		}
		return nil, nil, nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, org, lead, nil
}

func (s *DynamoDBStore) AdvanceLeadStatus(ctx context.Context, userID, leadID string, to models.LeadStatus, searchDomain string, now time.Time) (*models.Lead, error) {
	lead, err := s.ownedLead(ctx, userID, leadID)
	if err != nil {
		return nil, err
	}

	from := lead.SearchStatus
	if err := lead.Apply(to, searchDomain, now); err != nil {
		return nil, err
	}

	values := map[string]types.AttributeValue{
		":from":      &types.AttributeValueMemberS{Value: string(from)},
		":to":        &types.AttributeValueMemberS{Value: string(to)},
		":searched":  timeValue(*lead.LastSearchAt),
		":now":       timeValue(now),
		":statusKey": &types.AttributeValueMemberS{Value: lead.StatusKey},
	}
	update := "SET search_status = :to, last_search_at = :searched, updated_at = :now, StatusKey = :statusKey"
	if searchDomain != "" {
		update += ", search_domain = :domain"
		values[":domain"] = &types.AttributeValueMemberS{Value: searchDomain}
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       itemKey(lead.PK, lead.SK),
		UpdateExpression:          aws.String(update),
		ConditionExpression:       aws.String("search_status = :from"),
		ExpressionAttributeValues: values,
	})
	if err == nil {
		return lead, nil
	}
	if isConditionalFailure(err) {
		return nil, fmt.Errorf("%w: lead %s changed concurrently", models.ErrInvalidTransition, leadID)
	}

	s.logger.Warn("Conditional lead update failed, writing full row",
		zap.String("lead_id", leadID),
		zap.Error(err))

	item, err := attributevalue.MarshalMap(lead)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lead: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("search_status = :from"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":from": &types.AttributeValueMemberS{Value: string(from)},
		},
	})
	if err != nil {
		if isConditionalFailure(err) {
			return nil, fmt.Errorf("%w: lead %s changed concurrently", models.ErrInvalidTransition, leadID)
		}
		return nil, fmt.Errorf("failed to update lead status: %w", err)
	}
	return lead, nil
}

func (s *DynamoDBStore) GetLeadView(ctx context.Context, userID, leadID string) (*models.LeadView, error) {
	lead, err := s.ownedLead(ctx, userID, leadID)
	if err != nil {
		return nil, err
	}

	var org models.Organizer
	if err := s.getItem(ctx, models.CreateOrganizerPK(lead.OrganizerID), models.OrganizerProfileSK, &org); err != nil {
		return nil, err
	}
	var event models.Event
	if err := s.getItem(ctx, models.CreateEventPK(lead.EventID), models.DetailsSK, &event); err != nil {
		return nil, err
	}

	return &models.LeadView{Lead: *lead, Organizer: org, Event: event}, nil
}

// ListLeadsByStatus queries leads by owner and status using GSI
func (s *DynamoDBStore) ListLeadsByStatus(ctx context.Context, userID string, status models.LeadStatus, limit int) ([]models.Lead, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		IndexName:              aws.String(LeadStatusIndex),
		KeyConditionExpression: aws.String("StatusKey = :statusKey"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":statusKey": &types.AttributeValueMemberS{Value: models.GenerateLeadStatusKey(userID, status)},
		},
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	result, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query leads by status: %w", err)
	}

	var leads []models.Lead
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &leads); err != nil {
		return nil, fmt.Errorf("failed to unmarshal leads: %w", err)
	}
	return leads, nil
}

// Contact operations

// UpsertContact merges into an existing (organizer, email) row with if_not_exists
// so present values are never overwritten
func (s *DynamoDBStore) UpsertContact(ctx context.Context, userID, organizerID string, candidate models.ContactCandidate) (*models.Contact, bool, error) {
	if _, err := s.ownedOrganizer(ctx, userID, organizerID); err != nil {
		return nil, false, err
	}

	contact := models.NewContact(userID, organizerID, candidate, s.now())
	if err := contact.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	if contact.Email == "" {
		if err := s.putItem(ctx, contact, "attribute_not_exists(PK)"); err != nil {
			return nil, false, fmt.Errorf("failed to create contact: %w", err)
		}
		return contact, true, nil
	}

	update, names, values := contactUpsertExpression(contact)
	result, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       itemKey(contact.PK, contact.SK),
		UpdateExpression:          aws.String(update),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err == nil {
		var stored models.Contact
		if err := attributevalue.UnmarshalMap(result.Attributes, &stored); err != nil {
			return nil, false, fmt.Errorf("failed to unmarshal contact: %w", err)
		}
		return &stored, stored.ID == contact.ID, nil
	}

	s.logger.Warn("Contact upsert failed, using read-modify-write",
		zap.String("organizer_id", organizerID),
		zap.Error(err))
	return s.upsertContactSequential(ctx, contact, candidate)
}

func (s *DynamoDBStore) upsertContactSequential(ctx context.Context, contact *models.Contact, candidate models.ContactCandidate) (*models.Contact, bool, error) {
	var existing models.Contact
	err := s.getItem(ctx, contact.PK, contact.SK, &existing)
	switch {
	case errors.Is(err, ErrNotFound):
		if err := s.putItem(ctx, contact, "attribute_not_exists(PK)"); err != nil {
			if !isConditionalFailure(err) {
				return nil, false, fmt.Errorf("failed to create contact: %w", err)
			}
			// Created concurrently, merge into it instead
			if err := s.getItem(ctx, contact.PK, contact.SK, &existing); err != nil {
				return nil, false, err
			}
		} else {
			return contact, true, nil
		}
	case err != nil:
		return nil, false, err
	}

	if existing.MergeMissing(candidate) {
		existing.UpdatedAt = s.now()
		if err := s.putItem(ctx, &existing, "attribute_exists(PK)"); err != nil {
			return nil, false, fmt.Errorf("failed to update contact: %w", err)
		}
	}
	return &existing, false, nil
}

func contactUpsertExpression(c *models.Contact) (string, map[string]string, map[string]types.AttributeValue) {
	sets := []string{
		"id = if_not_exists(id, :id)",
		"organizer_id = if_not_exists(organizer_id, :organizerId)",
		"user_id = if_not_exists(user_id, :userId)",
		"email = if_not_exists(email, :email)",
		"created_at = if_not_exists(created_at, :now)",
		"updated_at = :now",
	}
	values := map[string]types.AttributeValue{
		":id":          &types.AttributeValueMemberS{Value: c.ID},
		":organizerId": &types.AttributeValueMemberS{Value: c.OrganizerID},
		":userId":      &types.AttributeValueMemberS{Value: c.UserID},
		":email":       &types.AttributeValueMemberS{Value: c.Email},
		":now":         timeValue(c.CreatedAt),
	}
	// position is a reserved word
	var names map[string]string
	if c.Name != "" {
		sets = append(sets, "contact_name = if_not_exists(contact_name, :name)")
		values[":name"] = &types.AttributeValueMemberS{Value: c.Name}
	}
	if c.Position != "" {
		sets = append(sets, "#position = if_not_exists(#position, :position)")
		values[":position"] = &types.AttributeValueMemberS{Value: c.Position}
		names = map[string]string{"#position": "position"}
	}
	return "SET " + strings.Join(sets, ", "), names, values
}

// Helpers

func (s *DynamoDBStore) ownedOrganizer(ctx context.Context, userID, organizerID string) (*models.Organizer, error) {
	var org models.Organizer
	if err := s.getItem(ctx, models.CreateOrganizerPK(organizerID), models.OrganizerProfileSK, &org); err != nil {
		return nil, err
	}
	if org.UserID != userID {
		return nil, fmt.Errorf("%w: organizer %s", ErrOwnershipMismatch, organizerID)
	}
	return &org, nil
}

func (s *DynamoDBStore) ownedLead(ctx context.Context, userID, leadID string) (*models.Lead, error) {
	var lead models.Lead
	if err := s.getItem(ctx, models.CreateLeadPK(leadID), models.DetailsSK, &lead); err != nil {
		return nil, err
	}
	if lead.UserID != userID {
		return nil, fmt.Errorf("%w: lead %s", ErrOwnershipMismatch, leadID)
	}
	return &lead, nil
}

func (s *DynamoDBStore) organizerByGuard(ctx context.Context, guardPK string) (*models.Organizer, error) {
	var guard uniqueGuard
	err := s.getItem(ctx, guardPK, models.UniqueSK, &guard)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var org models.Organizer
	if err := s.getItem(ctx, models.CreateOrganizerPK(guard.TargetID), models.OrganizerProfileSK, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

func (s *DynamoDBStore) guardItem(pk, targetID, userID string) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(uniqueGuard{
		PK:       pk,
		SK:       models.UniqueSK,
		TargetID: targetID,
		UserID:   userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal guard: %w", err)
	}
	return item, nil
}

// getItem loads PK/SK into out, returning ErrNotFound when the row is absent
func (s *DynamoDBStore) getItem(ctx context.Context, pk, sk string, out interface{}) error {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            itemKey(pk, sk),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", pk, err)
	}
	if result.Item == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, pk)
	}
	if err := attributevalue.UnmarshalMap(result.Item, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", pk, err)
	}
	return nil
}

func (s *DynamoDBStore) itemExists(ctx context.Context, pk, sk string) (bool, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(s.tableName),
		Key:                  itemKey(pk, sk),
		ConsistentRead:       aws.Bool(true),
		ProjectionExpression: aws.String("PK"),
	})
	if err != nil {
		return false, fmt.Errorf("failed to get %s: %w", pk, err)
	}
	return result.Item != nil, nil
}

func (s *DynamoDBStore) putItem(ctx context.Context, v interface{}, condition string) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}
	if condition != "" {
		input.ConditionExpression = aws.String(condition)
	}
	_, err = s.client.PutItem(ctx, input)
	return err
}

// transactPuts writes all items atomically, each one conditioned on not existing yet
func (s *DynamoDBStore) transactPuts(ctx context.Context, items []map[string]types.AttributeValue) error {
	writes := make([]types.TransactWriteItem, 0, len(items))
	for _, item := range items {
		writes = append(writes, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.tableName),
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			},
		})
	}
	_, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: writes,
	})
	return err
}

// putSequential writes items one by one. The first item is the uniqueness
// guard, so a conditional failure there stops before anything else is written.
// When a later write fails the rows already written are deleted again, so the
// guard never outlives a missing entity.
func (s *DynamoDBStore) putSequential(ctx context.Context, items []map[string]types.AttributeValue) error {
	for i, item := range items {
		_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:           aws.String(s.tableName),
			Item:                item,
			ConditionExpression: aws.String("attribute_not_exists(PK)"),
		})
		if err != nil {
			s.rollback(ctx, items[:i])
			return err
		}
	}
	return nil
}

// rollback deletes written items in reverse order. Each delete is conditioned
// on the row still carrying the id this call wrote, so a row replaced by
// another writer is left alone.
func (s *DynamoDBStore) rollback(ctx context.Context, written []map[string]types.AttributeValue) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
	defer cancel()

	for i := len(written) - 1; i >= 0; i-- {
		item := written[i]
		owner, value := "id", item["id"]
		if target, ok := item["target_id"]; ok {
			owner, value = "target_id", target
		}
		input := &dynamodb.DeleteItemInput{
			TableName: aws.String(s.tableName),
			Key:       itemKey(attrValueString(item["PK"]), attrValueString(item["SK"])),
		}
		if value != nil {
			input.ConditionExpression = aws.String(owner + " = :owner")
			input.ExpressionAttributeValues = map[string]types.AttributeValue{":owner": value}
		}
		if _, err := s.client.DeleteItem(ctx, input); err != nil && !isConditionalFailure(err) {
			s.logger.Error("Failed to roll back partial write",
				zap.String("pk", attrValueString(item["PK"])),
				zap.Error(err))
		}
	}
}

// isConditionalFailure reports whether err is a definitive condition check outcome
func isConditionalFailure(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for _, reason := range tce.CancellationReasons {
			if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
				return true
			}
		}
	}
	return false
}

func itemKey(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}

func attrValueString(v types.AttributeValue) string {
	if s, ok := v.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func timeValue(t time.Time) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: t.Format(time.RFC3339Nano)}
}
