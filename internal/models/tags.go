package models

// categoryKeys - приоритет ключей классификации
var categoryKeys = []string{"amenity", "shop", "tourism"}

// CategoryFromTags возвращает значение первого найденного ключа классификации
func CategoryFromTags(tags map[string]string) string {
	for _, key := range categoryKeys {
		if value, ok := tags[key]; ok && value != "" {
			return value
		}
	}
	return OtherCategory
}

// NameFromTags выбирает имя: name:{language}, затем name, затем UnnamedPlace
func NameFromTags(tags map[string]string, language string) string {
	if language != "" {
		if name := tags["name:"+language]; name != "" {
			return name
		}
	}
	if name := tags["name"]; name != "" {
		return name
	}
	return UnnamedPlace
}
