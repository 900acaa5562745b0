package shopify

// DisputesQuery fetches the first 250 payment disputes directly. The API
// caps pages at 250; we do not paginate beyond the first page.
const DisputesQuery = `
query getDisputes {
  shopifyPaymentsDisputes(first: 250) {
    edges {
      node {
        id
        type
        status
        reasonDetails {
          reason
        }
        amount {
          amount
          currencyCode
        }
        evidenceDueBy
        evidenceSentOn
        order {
          id
          name
          customer {
            email
          }
        }
      }
    }
  }
}
`

// OrdersWithDisputesQuery is the fallback path: fetch orders of any financial
// status with their nested dispute sub-objects and flatten them client-side.
const OrdersWithDisputesQuery = `
query getOrdersWithDisputes {
  orders(first: 250, query: "financial_status:any") {
    edges {
      node {
        id
        name
        email
        disputes {
          id
          status
          initiatedAs
        }
      }
    }
  }
}
`

// OrdersWithTransactionsQuery fetches recent orders with their transactions
// so chargeback transactions can be extracted.
const OrdersWithTransactionsQuery = `
query getOrdersWithTransactions {
  orders(first: 250, sortKey: CREATED_AT, reverse: true) {
    edges {
      node {
        id
        name
        email
        transactions(first: 50) {
          id
          kind
          status
          createdAt
          amountSet {
            shopMoney {
              amount
              currencyCode
            }
          }
        }
      }
    }
  }
}
`

// ActiveSubscriptionsQuery fetches the app's active subscriptions for the
// current installation.
const ActiveSubscriptionsQuery = `
query getActiveSubscriptions {
  currentAppInstallation {
    activeSubscriptions {
      id
      name
      status
      createdAt
      currentPeriodEnd
      test
    }
  }
}
`

// AppSubscriptionCreateMutation creates a recurring charge and returns the
// merchant-facing confirmation URL.
const AppSubscriptionCreateMutation = `
mutation appSubscriptionCreate($name: String!, $returnUrl: URL!, $test: Boolean, $lineItems: [AppSubscriptionLineItemInput!]!) {
  appSubscriptionCreate(name: $name, returnUrl: $returnUrl, test: $test, lineItems: $lineItems) {
    confirmationUrl
    appSubscription {
      id
      name
      status
    }
    userErrors {
      field
      message
    }
  }
}
`
