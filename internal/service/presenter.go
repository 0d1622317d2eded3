package service

import (
	"context"

	"github.com/vr-ski/TransactionManager/internal/models"
	"github.com/vr-ski/TransactionManager/internal/repository"
)

// Presenter joins transactions with contractor names and localized catalog
// labels for display
type Presenter interface {
	// Detail returns nil, nil when the transaction does not exist
	Detail(ctx context.Context, transactionID uint64, lang string) (*models.TransactionDetail, error)
	ListRecent(ctx context.Context, userID uint64, limit int, lang string) ([]models.TransactionListItem, error)
	ListForContractor(ctx context.Context, userID, contractorID uint64, lang string) ([]models.TransactionListItem, error)
}

type presenter struct {
	store repository.Store
}

func NewPresenter(store repository.Store) Presenter {
	return &presenter{store: store}
}

func (p *presenter) Detail(ctx context.Context, transactionID uint64, lang string) (*models.TransactionDetail, error) {
	lang = normalizeLang(lang)
	var detail *models.TransactionDetail

	err := p.store.WithTx(ctx, func(st repository.Store) error {
		tx, err := st.Transactions().FindByID(ctx, transactionID)
		if err != nil || tx == nil {
			return err
		}

		from, err := contractorName(ctx, st, tx.ContractorFromID)
		if err != nil {
			return err
		}
		to, err := contractorName(ctx, st, tx.ContractorToID)
		if err != nil {
			return err
		}

		status, err := detailStatus(ctx, st, tx.StatusID, lang)
		if err != nil {
			return err
		}

		txType, err := st.TransactionTypes().FindByID(ctx, tx.TransactionTypeID)
		if err != nil {
			return err
		}
		if txType == nil {
			return errUnknownType
		}
		typeOption := models.TypeOption{
			TransactionTypeID: txType.TransactionTypeID,
			Code:              txType.Code,
			DisplayName:       txType.Code,
		}
		tr, err := st.TransactionTypes().FindTranslation(ctx, txType.TransactionTypeID, lang)
		if err != nil {
			return err
		}
		if tr != nil {
			typeOption.DisplayName = tr.DisplayName
		}

		detail = &models.TransactionDetail{
			TransactionID:   tx.TransactionID,
			ContractorFrom:  from,
			ContractorTo:    to,
			Amount:          models.Money(tx.Amount),
			TransactionType: typeOption,
			Status:          status,
			CreatedAt:       tx.CreatedAt,
			UpdatedAt:       tx.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func contractorName(ctx context.Context, st repository.Store, contractorID uint64) (string, error) {
	c, err := st.Contractors().FindByID(ctx, contractorID)
	if err != nil {
		return "", err
	}
	if c == nil {
		return models.UnknownLabel, nil
	}
	return c.Name, nil
}

func detailStatus(ctx context.Context, st repository.Store, statusID uint64, lang string) (models.StatusOption, error) {
	option := models.StatusOption{
		StatusID:    statusID,
		Code:        models.UnknownStatusCode,
		DisplayName: models.UnknownLabel,
		Color:       models.FallbackStatusColor,
	}

	status, err := st.Statuses().FindByID(ctx, statusID)
	if err != nil {
		return option, err
	}
	if status != nil {
		option.Code = status.Code
	}

	tr, err := st.Statuses().FindTranslation(ctx, statusID, lang)
	if err != nil {
		return option, err
	}
	if tr != nil {
		option.DisplayName = tr.DisplayName
	}

	color, err := st.Statuses().FindColor(ctx, statusID)
	if err != nil {
		return option, err
	}
	if color != nil {
		option.Color = color.Color
	}
	return option, nil
}

type translationKey struct {
	id   uint64
	lang string
}

// lookups holds everything a list item needs, loaded once per call
type lookups struct {
	contractors  map[uint64]string
	statusCodes  map[uint64]string
	statusColors map[uint64]string
	statusLabels map[translationKey]string
	typeCodes    map[uint64]string
	typeLabels   map[translationKey]string
}

func loadLookups(ctx context.Context, st repository.Store, userID uint64) (*lookups, error) {
	l := &lookups{
		contractors:  make(map[uint64]string),
		statusCodes:  make(map[uint64]string),
		statusColors: make(map[uint64]string),
		statusLabels: make(map[translationKey]string),
		typeCodes:    make(map[uint64]string),
		typeLabels:   make(map[translationKey]string),
	}

	contractors, err := st.Contractors().FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, c := range contractors {
		l.contractors[c.ContractorID] = c.Name
	}

	statuses, err := st.Statuses().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range statuses {
		l.statusCodes[s.StatusID] = s.Code
	}

	colors, err := st.Statuses().FindAllColors(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range colors {
		l.statusColors[c.StatusID] = c.Color
	}

	statusTranslations, err := st.Statuses().FindAllTranslations(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range statusTranslations {
		l.statusLabels[translationKey{t.StatusID, t.LanguageCode}] = t.DisplayName
	}

	types, err := st.TransactionTypes().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		l.typeCodes[t.TransactionTypeID] = t.Code
	}

	typeTranslations, err := st.TransactionTypes().FindAllTranslations(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range typeTranslations {
		l.typeLabels[translationKey{t.TransactionTypeID, t.LanguageCode}] = t.DisplayName
	}

	return l, nil
}

func (l *lookups) item(tx models.Transaction, lang string) models.TransactionListItem {
	item := models.TransactionListItem{
		TransactionID:   tx.TransactionID,
		ContractorFrom:  models.UnknownLabel,
		ContractorTo:    models.UnknownLabel,
		Amount:          models.Money(tx.Amount),
		TransactionType: models.UnknownLabel,
		Status: models.StatusPresentation{
			Code:        models.UnknownStatusCode,
			DisplayName: models.UnknownLabel,
			Color:       models.FallbackStatusColor,
		},
		CreatedAt: tx.CreatedAt,
	}

	if name, ok := l.contractors[tx.ContractorFromID]; ok {
		item.ContractorFrom = name
	}
	if name, ok := l.contractors[tx.ContractorToID]; ok {
		item.ContractorTo = name
	}

	if code, ok := l.statusCodes[tx.StatusID]; ok {
		item.Status.Code = code
	}
	if label, ok := l.statusLabels[translationKey{tx.StatusID, lang}]; ok {
		item.Status.DisplayName = label
	}
	if color, ok := l.statusColors[tx.StatusID]; ok {
		item.Status.Color = color
	}

	if label, ok := l.typeLabels[translationKey{tx.TransactionTypeID, lang}]; ok {
		item.TransactionType = label
	} else if code, ok := l.typeCodes[tx.TransactionTypeID]; ok {
		item.TransactionType = code
	}

	return item
}

// ListRecent returns up to limit of the user's transactions, newest first.
// All lookups are loaded before the rows so no per-row query is issued.
func (p *presenter) ListRecent(ctx context.Context, userID uint64, limit int, lang string) ([]models.TransactionListItem, error) {
	lang = normalizeLang(lang)
	items := []models.TransactionListItem{}

	err := p.store.WithTx(ctx, func(st repository.Store) error {
		l, err := loadLookups(ctx, st, userID)
		if err != nil {
			return err
		}

		txs, err := st.Transactions().FindRecent(ctx, userID, limit)
		if err != nil {
			return err
		}
		for _, tx := range txs {
			items = append(items, l.item(tx, lang))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListForContractor returns every transaction the contractor sent or received.
// The contractor must belong to userID.
func (p *presenter) ListForContractor(ctx context.Context, userID, contractorID uint64, lang string) ([]models.TransactionListItem, error) {
	lang = normalizeLang(lang)
	items := []models.TransactionListItem{}

	err := p.store.WithTx(ctx, func(st repository.Store) error {
		c, err := st.Contractors().FindByID(ctx, contractorID)
		if err != nil {
			return err
		}
		if c == nil || c.UserID != userID {
			return ErrContractorNotFound
		}

		l, err := loadLookups(ctx, st, userID)
		if err != nil {
			return err
		}

		txs, err := st.Transactions().FindForContractors(ctx, []uint64{contractorID})
		if err != nil {
			return err
		}
		for _, tx := range txs {
			items = append(items, l.item(tx, lang))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func normalizeLang(lang string) string {
	if lang == "" {
		return models.DefaultLanguage
	}
	return lang
}
