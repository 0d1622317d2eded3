package service

import (
	"context"

	"github.com/vr-ski/TransactionManager/internal/models"
	"github.com/vr-ski/TransactionManager/internal/repository"
	"github.com/vr-ski/TransactionManager/pkg/logger"
)

type CatalogService interface {
	ListStatuses(ctx context.Context, lang string) ([]models.StatusOption, error)
	ListTypes(ctx context.Context, lang string) ([]models.TypeOption, error)
	ListLanguages(ctx context.Context) ([]models.Language, error)
}

type catalogService struct {
	store repository.Store
	cache repository.CatalogCache
	log   *logger.Logger
}

// NewCatalogService reads the lookup tables. cache may be nil.
func NewCatalogService(store repository.Store, cache repository.CatalogCache, log *logger.Logger) CatalogService {
	return &catalogService{
		store: store,
		cache: cache,
		log:   log,
	}
}

func (s *catalogService) ListStatuses(ctx context.Context, lang string) ([]models.StatusOption, error) {
	lang = normalizeLang(lang)

	if s.cache != nil {
		options, ok, err := s.cache.GetStatuses(ctx, lang)
		if err != nil {
			s.log.WithError(err).Warn("Status cache read failed")
		} else if ok {
			return options, nil
		}
	}

	var options []models.StatusOption
	err := s.store.WithTx(ctx, func(st repository.Store) error {
		statuses, err := st.Statuses().FindAll(ctx)
		if err != nil {
			return err
		}
		colors, err := st.Statuses().FindAllColors(ctx)
		if err != nil {
			return err
		}
		translations, err := st.Statuses().FindAllTranslations(ctx)
		if err != nil {
			return err
		}

		colorByID := make(map[uint64]string, len(colors))
		for _, c := range colors {
			colorByID[c.StatusID] = c.Color
		}
		labelByID := make(map[uint64]string)
		for _, t := range translations {
			if t.LanguageCode == lang {
				labelByID[t.StatusID] = t.DisplayName
			}
		}

		options = make([]models.StatusOption, 0, len(statuses))
		for _, status := range statuses {
			option := models.StatusOption{
				StatusID:    status.StatusID,
				Code:        status.Code,
				DisplayName: status.Code,
				Color:       models.DefaultCatalogColor,
			}
			if label, ok := labelByID[status.StatusID]; ok && label != "" {
				option.DisplayName = label
			}
			if color, ok := colorByID[status.StatusID]; ok {
				option.Color = color
			}
			options = append(options, option)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetStatuses(ctx, lang, options); err != nil {
			s.log.WithError(err).Warn("Status cache write failed")
		}
	}
	return options, nil
}

func (s *catalogService) ListTypes(ctx context.Context, lang string) ([]models.TypeOption, error) {
	lang = normalizeLang(lang)

	if s.cache != nil {
		options, ok, err := s.cache.GetTypes(ctx, lang)
		if err != nil {
			s.log.WithError(err).Warn("Transaction type cache read failed")
		} else if ok {
			return options, nil
		}
	}

	var options []models.TypeOption
	err := s.store.WithTx(ctx, func(st repository.Store) error {
		types, err := st.TransactionTypes().FindAll(ctx)
		if err != nil {
			return err
		}
		translations, err := st.TransactionTypes().FindAllTranslations(ctx)
		if err != nil {
			return err
		}

		labelByID := make(map[uint64]string)
		for _, t := range translations {
			if t.LanguageCode == lang {
				labelByID[t.TransactionTypeID] = t.DisplayName
			}
		}

		options = make([]models.TypeOption, 0, len(types))
		for _, t := range types {
			option := models.TypeOption{
				TransactionTypeID: t.TransactionTypeID,
				Code:              t.Code,
				DisplayName:       t.Code,
			}
			if label, ok := labelByID[t.TransactionTypeID]; ok && label != "" {
				option.DisplayName = label
			}
			options = append(options, option)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetTypes(ctx, lang, options); err != nil {
			s.log.WithError(err).Warn("Transaction type cache write failed")
		}
	}
	return options, nil
}

func (s *catalogService) ListLanguages(ctx context.Context) ([]models.Language, error) {
	languages, err := s.store.Languages().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if languages == nil {
		languages = []models.Language{}
	}
	return languages, nil
}
